package main

import (
	"context"
	"fmt"

	"github.com/k7t3/horzcv/internal/formatter"
	"github.com/k7t3/horzcv/internal/shared"
	"github.com/k7t3/horzcv/internal/token"
	"github.com/urfave/cli/v3"
)

// Render exports the chat row of a token to stdout or a file.
func (r *Runner) Render(ctx context.Context, cmd *cli.Command) error {
	tok := cmd.StringArg("token")
	if tok == "" {
		return fmt.Errorf("%w: token", shared.ErrMissingArgument)
	}
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	list, errs := token.DecodeManyReport(tok)
	for _, err := range errs {
		r.logger.Warn("skipped token part", "error", err)
	}

	thumbnails := map[string]string{}
	if cmd.Bool("resolve") {
		if r.lookup == nil {
			return fmt.Errorf("%w: streamer lookup not initialized", shared.ErrServiceUnavailable)
		}
		result, err := r.resolve(ctx, list, false)
		if result == nil {
			return err
		}
		if err != nil {
			r.logger.Warn("lookup incomplete", "error", err)
		}
		list = result.Names(false)
		for _, res := range result.Results {
			if res.Info != nil && res.Info.ThumbnailURL != "" {
				thumbnails[res.URL] = res.Info.ThumbnailURL
			}
		}
	}

	row, errs := formatter.NewRow(r.registry, list)
	for _, err := range errs {
		r.logger.Warn("skipped stream", "error", err)
	}
	row.ApplyThumbnails(thumbnails)

	output := cmd.String("output")
	switch {
	case output != "" && format == formatter.Markdown:
		result, err := formatter.WriteMarkdownExport(row, output, r.httpClient)
		if err != nil {
			return err
		}
		for _, w := range result.Warnings {
			r.logger.Warn("thumbnail skipped", "error", w)
		}
		r.writePlain("✓ Exported %d chat(s) to %s\n", len(row.Items), result.Directory)
		for _, f := range result.Files {
			r.writePlain("  %s\n", f)
		}
		return nil
	case output != "":
		path, err := formatter.WriteFileExport(row, format, output)
		if err != nil {
			return err
		}
		return r.writePlain("✓ Exported %d chat(s) to %s\n", len(row.Items), path)
	default:
		data, err := formatter.Export(row, format)
		if err != nil {
			return err
		}
		if _, err := r.output.Write(data); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
}
