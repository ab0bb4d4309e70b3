package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/k7t3/horzcv/internal/models"
	"github.com/k7t3/horzcv/internal/shared"
	"github.com/k7t3/horzcv/internal/tasks"
	"github.com/k7t3/horzcv/internal/token"
	"github.com/urfave/cli/v3"
)

// ResolvedStream is the printable outcome of resolving one stream of a token.
type ResolvedStream struct {
	Stream
	Streamer *models.StreamerInfo `json:"streamer,omitempty"`
	Error    string               `json:"error,omitempty"`
}

// ResolvedToken is the printable outcome of resolving a token.
type ResolvedToken struct {
	Token    string           `json:"token"`
	Resolved int              `json:"resolved"`
	Total    int              `json:"total"`
	Streams  []ResolvedStream `json:"streams"`
}

// Lookup resolves a single URL or keyword, or every stream of a token with --token.
func (r *Runner) Lookup(ctx context.Context, cmd *cli.Command) error {
	if r.lookup == nil {
		return fmt.Errorf("%w: streamer lookup not initialized", shared.ErrServiceUnavailable)
	}
	if tok := cmd.String("token"); tok != "" {
		return r.lookupToken(ctx, cmd, tok)
	}

	query := cmd.StringArg("url")
	if query == "" {
		return fmt.Errorf("%w: URL or --token", shared.ErrMissingArgument)
	}

	resp := r.lookup.Lookup(ctx, query)

	if cmd.Bool("save") {
		if info, ok := resp.First(); ok {
			if err := r.rememberName(query, info.Name); err != nil {
				return err
			}
		}
	}

	if cmd.Bool("json") {
		return r.writeJSON(resp, cmd.Bool("pretty"))
	}

	if !resp.Identified {
		return r.writePlain("No streamer found for %s\n", query)
	}
	r.writePlainHeader(fmt.Sprintf("Streamers for %s", query))
	for i, c := range resp.Candidates {
		if err := r.writePlain("%d. %s\n   stream:    %s\n   thumbnail: %s\n", i+1, c.Name, c.StreamURL, c.ThumbnailURL); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) lookupToken(ctx context.Context, cmd *cli.Command, tok string) error {
	list, errs := token.DecodeManyReport(tok)
	for _, err := range errs {
		r.logger.Warn("skipped token part", "error", err)
	}
	if len(list) == 0 {
		return fmt.Errorf("%w: %q holds no streams", shared.ErrInvalidToken, tok)
	}

	result, err := r.resolve(ctx, list, !cmd.Bool("json"))
	if result == nil {
		return err
	}
	if err != nil {
		r.logger.Warn("lookup incomplete", "error", err)
	}

	resolved := result.Names(cmd.Bool("overwrite"))
	if cmd.Bool("save") {
		names, err := r.names()
		if err != nil {
			return err
		}
		for i, res := range result.Results {
			if res.Info == nil {
				continue
			}
			if err := names.Store(token.Key(res.Identity.Identity), resolved[i].DisplayName); err != nil {
				return err
			}
		}
		if err := names.Flush(); err != nil {
			return err
		}
	}

	out := ResolvedToken{
		Token:    token.EncodeMany(resolved),
		Resolved: result.Resolved,
		Total:    result.Total,
		Streams:  make([]ResolvedStream, len(result.Results)),
	}
	streams := r.streams(resolved)
	for i, res := range result.Results {
		out.Streams[i] = ResolvedStream{Stream: streams[i], Streamer: res.Info}
		if res.Error != nil {
			out.Streams[i].Error = res.Error.Error()
		}
	}

	if cmd.Bool("json") {
		return r.writeJSON(out, cmd.Bool("pretty"))
	}
	return r.writePlainln("Token: %s", out.Token)
}

// resolve runs the batch resolver, echoing progress messages when verbose is set.
//
// The result is nil only when the resolver could not be created.
func (r *Runner) resolve(ctx context.Context, list []models.NamedIdentity, verbose bool) (*tasks.ResolveResult, error) {
	resolver, err := r.resolver()
	if err != nil {
		return nil, err
	}
	defer resolver.Close()

	progress := make(chan tasks.ProgressUpdate, len(list)+2)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for update := range progress {
			r.logger.Debug("lookup progress", "phase", update.Phase, "step", update.Step, "total", update.Total)
			if verbose {
				r.writePlain("%s\n", update.Message)
			}
		}
	}()

	result, err := resolver.Resolve(ctx, progress, list)
	close(progress)
	wg.Wait()
	return result, err
}

// rememberName stores name for the stream at url when url names a supported stream.
func (r *Runner) rememberName(url, name string) error {
	n, err := r.identify(url)
	if err != nil {
		r.logger.Warn("not remembering name", "query", url, "error", err)
		return nil
	}
	names, err := r.names()
	if err != nil {
		return err
	}
	if err := names.Store(token.Key(n.Identity), name); err != nil {
		return err
	}
	return names.Flush()
}
