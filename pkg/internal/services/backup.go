// Package services holds the operations built on top of the data contract:
// tenant backup and restore.
package services

import (
	"context"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/inkwelldev/inkwell/pkg/internal/data"
	"github.com/inkwelldev/inkwell/pkg/internal/models"
)

var (
	json     = jsoniter.ConfigCompatibleWithStandardLibrary
	validate = validator.New()
)

// uploadRestoreBatch bounds the rows per upload insert batch; upload payloads
// are the only large binary values in an archive.
const uploadRestoreBatch = 5

// Backup collects everything scoped to the web log into an archive. Pages and
// posts are read in full so their revision lists travel with them.
func Backup(ctx context.Context, store data.Store, webLogId string) (*models.Archive, error) {
	webLog, err := store.WebLogs().FindById(ctx, webLogId)
	if err != nil {
		return nil, err
	}
	if webLog == nil {
		return nil, fmt.Errorf("no web log found with id %q", webLogId)
	}

	archive := models.Archive{WebLog: *webLog}
	if archive.Users, err = store.Users().FindByWebLog(ctx, webLogId); err != nil {
		return nil, err
	}
	if archive.Categories, err = store.Categories().FindByWebLog(ctx, webLogId); err != nil {
		return nil, err
	}
	if archive.TagMaps, err = store.TagMaps().FindByWebLog(ctx, webLogId); err != nil {
		return nil, err
	}
	if archive.Pages, err = store.Pages().FindFullByWebLog(ctx, webLogId); err != nil {
		return nil, err
	}
	if archive.Posts, err = store.Posts().FindFullByWebLog(ctx, webLogId); err != nil {
		return nil, err
	}
	if archive.Uploads, err = store.Uploads().FindByWebLogWithData(ctx, webLogId); err != nil {
		return nil, err
	}

	log.Info().
		Str("web_log", archive.WebLog.Name).
		Int("users", len(archive.Users)).
		Int("categories", len(archive.Categories)).
		Int("pages", len(archive.Pages)).
		Int("posts", len(archive.Posts)).
		Int("uploads", len(archive.Uploads)).
		Msg("Web log backed up.")
	return &archive, nil
}

// Restore writes the archive into the store in dependency order: the web log
// first, then users, categories, and tag mappings, then the content that
// references them. Each entity kind goes in as one batch; uploads are chunked
// so a single statement never carries more than a few binary payloads.
func Restore(ctx context.Context, store data.Store, archive *models.Archive) error {
	if err := validate.Struct(&archive.WebLog); err != nil {
		return fmt.Errorf("archive web log failed validation: %w", err)
	}
	for i := range archive.Users {
		if err := validate.Struct(&archive.Users[i]); err != nil {
			return fmt.Errorf("archive user %q failed validation: %w", archive.Users[i].Id, err)
		}
	}

	if err := store.WebLogs().Add(ctx, &archive.WebLog); err != nil {
		return fmt.Errorf("unable to restore web log: %w", err)
	}
	if err := store.Users().Restore(ctx, archive.Users); err != nil {
		return fmt.Errorf("unable to restore users: %w", err)
	}
	if err := store.Categories().Restore(ctx, archive.Categories); err != nil {
		return fmt.Errorf("unable to restore categories: %w", err)
	}
	if err := store.TagMaps().Restore(ctx, archive.TagMaps); err != nil {
		return fmt.Errorf("unable to restore tag mappings: %w", err)
	}
	if err := store.Pages().Restore(ctx, archive.Pages); err != nil {
		return fmt.Errorf("unable to restore pages: %w", err)
	}
	if err := store.Posts().Restore(ctx, archive.Posts); err != nil {
		return fmt.Errorf("unable to restore posts: %w", err)
	}
	for _, chunk := range lo.Chunk(archive.Uploads, uploadRestoreBatch) {
		if err := store.Uploads().Restore(ctx, chunk); err != nil {
			return fmt.Errorf("unable to restore uploads: %w", err)
		}
	}

	log.Info().Str("web_log", archive.WebLog.Name).Msg("Web log restored.")
	return nil
}

// WriteArchive serializes the archive to a JSON file; binary upload payloads
// become base64 strings in the file form.
func WriteArchive(path string, archive *models.Archive) error {
	payload, err := json.MarshalIndent(archive, "", "  ")
	if err != nil {
		return fmt.Errorf("unable to serialize archive: %w", err)
	}
	return os.WriteFile(path, payload, 0o644)
}

// ReadArchive loads an archive previously produced by WriteArchive.
func ReadArchive(path string) (*models.Archive, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var archive models.Archive
	if err := json.Unmarshal(payload, &archive); err != nil {
		return nil, fmt.Errorf("unable to deserialize archive: %w", err)
	}
	return &archive, nil
}
