package source

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/JMousqueton/api.ransomware.live/internal/model"
	apperrors "github.com/JMousqueton/api.ransomware.live/pkg/errors"
)

// File loads datasets from flat JSON snapshots in a local directory. Each
// dataset lives at <dir>/<dataset>.json.
type File struct {
	dir    string
	logger *slog.Logger
}

// NewFile creates a local snapshot loader rooted at dir.
func NewFile(dir string, logger *slog.Logger) *File {
	return &File{
		dir:    dir,
		logger: logger.With("component", "source-file"),
	}
}

func (f *File) read(dataset Dataset) ([]byte, error) {
	path := filepath.Join(f.dir, string(dataset)+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeServiceUnavail, "failed to read data snapshot").
			WithDetail("dataset", string(dataset))
	}
	return data, nil
}

func (f *File) Victims(ctx context.Context) ([]model.VictimRecord, error) {
	data, err := f.read(DatasetVictims)
	if err != nil {
		return nil, err
	}
	records, err := decodeList[model.VictimRecord](data, DatasetVictims, f.logger)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeServiceUnavail, "malformed victims snapshot")
	}
	return records, nil
}

func (f *File) Groups(ctx context.Context) ([]model.GroupRecord, error) {
	data, err := f.read(DatasetGroups)
	if err != nil {
		return nil, err
	}
	records, err := decodeList[model.GroupRecord](data, DatasetGroups, f.logger)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeServiceUnavail, "malformed groups snapshot")
	}
	return records, nil
}

func (f *File) TTPs(ctx context.Context) ([]model.TTPRecord, error) {
	data, err := f.read(DatasetTTPs)
	if err != nil {
		return nil, err
	}
	records, err := decodeList[model.TTPRecord](data, DatasetTTPs, f.logger)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeServiceUnavail, "malformed ttps snapshot")
	}
	return records, nil
}

func (f *File) Infostealer(ctx context.Context) (map[string]model.InfostealerExposure, error) {
	data, err := f.read(DatasetInfostealer)
	if err != nil {
		return nil, err
	}
	index, err := decodeIndex(data)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeServiceUnavail, "malformed infostealer snapshot")
	}
	return index, nil
}

func (f *File) Cyberattacks(ctx context.Context) ([]model.CyberattackRecord, error) {
	data, err := f.read(DatasetCyberattacks)
	if err != nil {
		return nil, err
	}
	records, err := decodeList[model.CyberattackRecord](data, DatasetCyberattacks, f.logger)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeServiceUnavail, "malformed cyberattacks snapshot")
	}
	return records, nil
}
