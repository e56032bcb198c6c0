// Package source loads the raw intelligence datasets from their source of
// truth. Two interchangeable backends exist: a remote HTTP fetch and a local
// snapshot directory. Neither applies business logic; record decoding is the
// normalization boundary for the rest of the pipeline.
package source

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/JMousqueton/api.ransomware.live/internal/model"
)

// Dataset names the record sets a Loader can retrieve.
type Dataset string

const (
	DatasetVictims      Dataset = "victims"
	DatasetGroups       Dataset = "groups"
	DatasetTTPs         Dataset = "ttps"
	DatasetInfostealer  Dataset = "infostealer"
	DatasetCyberattacks Dataset = "cyberattacks"
)

// Loader retrieves the named datasets. Implementations surface a
// SERVICE_UNAVAILABLE error on any transport, file, or decode failure; no
// retry is performed.
type Loader interface {
	Victims(ctx context.Context) ([]model.VictimRecord, error)
	Groups(ctx context.Context) ([]model.GroupRecord, error)
	TTPs(ctx context.Context) ([]model.TTPRecord, error)
	Infostealer(ctx context.Context) (map[string]model.InfostealerExposure, error)
	Cyberattacks(ctx context.Context) ([]model.CyberattackRecord, error)
}

// decodeList decodes a JSON array element by element. An element that does
// not decode is skipped rather than failing the whole batch; one malformed
// record must not take down the response.
func decodeList[T any](data []byte, dataset Dataset, logger *slog.Logger) ([]T, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	out := make([]T, 0, len(raw))
	for i, msg := range raw {
		var rec T
		if err := json.Unmarshal(msg, &rec); err != nil {
			logger.Warn("skipping malformed record",
				"dataset", string(dataset), "index", i, "error", err)
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func decodeIndex(data []byte) (map[string]model.InfostealerExposure, error) {
	var index map[string]model.InfostealerExposure
	if err := json.Unmarshal(data, &index); err != nil {
		return nil, err
	}
	return index, nil
}
