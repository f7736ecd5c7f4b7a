package tracking

import (
	"context"
	"fmt"
	"path"

	"github.com/google/uuid"

	"github.com/JaimeStill/pulse/pkg/storage"
)

type artifactStore struct {
	store  storage.System
	prefix string
}

func (a *artifactStore) runKey(id uuid.UUID, parts ...string) string {
	return path.Join(append([]string{a.prefix, id.String()}, parts...)...)
}

func (a *artifactStore) copy(ctx context.Context, id uuid.UUID, key, category string) (Artifact, error) {
	body, err := a.store.Download(ctx, key)
	if err != nil {
		return Artifact{}, fmt.Errorf("read artifact %s: %w", key, err)
	}
	defer body.Close()

	name := path.Base(key)
	dest := a.runKey(id, "artifacts", category, name)

	if err := a.store.Upload(ctx, dest, body, contentType(name)); err != nil {
		return Artifact{}, fmt.Errorf("store artifact %s: %w", dest, err)
	}

	return Artifact{Category: category, Name: name, Key: dest}, nil
}

func (a *artifactStore) putJSON(ctx context.Context, id uuid.UUID, value any, logicalPath string) (Artifact, error) {
	dest := a.runKey(id, "artifacts", logicalPath)
	if err := storage.WriteJSON(ctx, a.store, dest, value); err != nil {
		return Artifact{}, fmt.Errorf("store dict %s: %w", logicalPath, err)
	}

	return Artifact{
		Category: path.Dir(logicalPath),
		Name:     path.Base(logicalPath),
		Key:      dest,
	}, nil
}

func contentType(name string) string {
	switch path.Ext(name) {
	case ".json":
		return "application/json"
	case ".html":
		return "text/html; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}
