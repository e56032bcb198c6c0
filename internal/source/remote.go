package source

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/JMousqueton/api.ransomware.live/internal/model"
	"github.com/JMousqueton/api.ransomware.live/pkg/config"
	apperrors "github.com/JMousqueton/api.ransomware.live/pkg/errors"
)

// HTTP loads datasets over the network from the configured URLs.
type HTTP struct {
	client *http.Client
	urls   map[Dataset]string
	logger *slog.Logger
}

// NewHTTP creates a remote loader from the configured dataset URLs.
func NewHTTP(cfg *config.Config, logger *slog.Logger) *HTTP {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}

	return &HTTP{
		client: &http.Client{
			Transport: transport,
			Timeout:   cfg.ReadTimeout,
		},
		urls: map[Dataset]string{
			DatasetVictims:      cfg.VictimsURL,
			DatasetGroups:       cfg.GroupsURL,
			DatasetTTPs:         cfg.TTPsURL,
			DatasetInfostealer:  cfg.InfostealerURL,
			DatasetCyberattacks: cfg.CyberattacksURL,
		},
		logger: logger.With("component", "source-http"),
	}
}

func (h *HTTP) fetch(ctx context.Context, dataset Dataset) ([]byte, error) {
	url := h.urls[dataset]

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternalError, "build source request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeServiceUnavail, "failed to fetch data from the source").
			WithDetail("dataset", string(dataset))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperrors.SourceUnavailable("failed to fetch data from the source").
			WithDetail("dataset", string(dataset)).
			WithDetail("status", resp.StatusCode).
			WithStatus(resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeServiceUnavail, "failed to read source response").
			WithDetail("dataset", string(dataset))
	}
	return body, nil
}

func (h *HTTP) Victims(ctx context.Context) ([]model.VictimRecord, error) {
	data, err := h.fetch(ctx, DatasetVictims)
	if err != nil {
		return nil, err
	}
	records, err := decodeList[model.VictimRecord](data, DatasetVictims, h.logger)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeServiceUnavail, "malformed victims dataset")
	}
	return records, nil
}

func (h *HTTP) Groups(ctx context.Context) ([]model.GroupRecord, error) {
	data, err := h.fetch(ctx, DatasetGroups)
	if err != nil {
		return nil, err
	}
	records, err := decodeList[model.GroupRecord](data, DatasetGroups, h.logger)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeServiceUnavail, "malformed groups dataset")
	}
	return records, nil
}

func (h *HTTP) TTPs(ctx context.Context) ([]model.TTPRecord, error) {
	data, err := h.fetch(ctx, DatasetTTPs)
	if err != nil {
		return nil, err
	}
	records, err := decodeList[model.TTPRecord](data, DatasetTTPs, h.logger)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeServiceUnavail, "malformed ttps dataset")
	}
	return records, nil
}

func (h *HTTP) Infostealer(ctx context.Context) (map[string]model.InfostealerExposure, error) {
	data, err := h.fetch(ctx, DatasetInfostealer)
	if err != nil {
		return nil, err
	}
	index, err := decodeIndex(data)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeServiceUnavail, "malformed infostealer dataset")
	}
	return index, nil
}

func (h *HTTP) Cyberattacks(ctx context.Context) ([]model.CyberattackRecord, error) {
	data, err := h.fetch(ctx, DatasetCyberattacks)
	if err != nil {
		return nil, err
	}
	records, err := decodeList[model.CyberattackRecord](data, DatasetCyberattacks, h.logger)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeServiceUnavail, "malformed cyberattacks dataset")
	}
	return records, nil
}
