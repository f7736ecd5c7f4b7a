package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
)

// WriteJSON encodes v as indented JSON and uploads it to key.
func WriteJSON(ctx context.Context, sys System, key string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return sys.Upload(ctx, key, bytes.NewReader(data), "application/json")
}

// ReadJSON downloads key and decodes it into v.
// Returns ErrNotFound if the object does not exist.
func ReadJSON(ctx context.Context, sys System, key string, v any) error {
	body, err := sys.Download(ctx, key)
	if err != nil {
		return err
	}
	defer body.Close()

	if err := json.NewDecoder(body).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}
