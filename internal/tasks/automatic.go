package tasks

import (
	"context"
	"strings"
	"time"

	"github.com/ShadyBoukhary/traktarr/internal/models"
	"github.com/ShadyBoukhary/traktarr/internal/shared"
)

// listPause spaces out consecutive list runs in automatic mode so the
// source API is not hammered.
const listPause = 10 * time.Second

// Scope selects which list category an automatic run covers. Public and
// user lists re-run on independent intervals.
type Scope int

const (
	PublicLists Scope = iota
	UserLists
)

func (s Scope) String() string {
	if s == UserLists {
		return "user_lists"
	}
	return "public_lists"
}

// AutomaticOptions describes one automatic-mode sweep.
type AutomaticOptions struct {
	Kind     models.Kind
	Scope    Scope
	Delay    float64 // seconds between submissions; 0 = default, negative = none
	DryRun   bool
	NoSearch bool
}

// AutomaticResult summarizes one automatic sweep.
type AutomaticResult struct {
	Lists int // lists actually processed
	Added int
}

type sleepFunc func(ctx context.Context, d time.Duration)

func defaultSleep(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// automaticList is one list scheduled within a sweep.
type automaticList struct {
	list             string
	limit            int
	authenticateUser string
	disableKey       string
}

// Automatic sweeps every configured list for the kind and scope, running
// the batch pipeline once per list. Lists named in disabled_for still run,
// with the blacklist overridden for that list. A failing list is logged
// and skipped; the sweep continues. Consecutive lists are spaced out by a
// pause.
func (e *Engine) Automatic(ctx context.Context, events chan<- Event, opts AutomaticOptions) (*AutomaticResult, error) {
	cfg := e.automaticFor(opts.Kind)
	disabled := disabledSet(e.cfg.FiltersFor(string(opts.Kind)).DisabledFor)
	logger := e.logger.With("kind", opts.Kind.Singular(), "scope", opts.Scope.String())

	result := &AutomaticResult{}
	for _, entry := range e.sweepLists(opts.Kind, opts.Scope, cfg) {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		if entry.limit <= 0 {
			continue
		}
		// disabled_for exempts the list from blacklist checks; it still
		// runs.
		_, ignoreBlacklist := disabled[strings.ToLower(entry.disableKey)]
		if ignoreBlacklist {
			logger.Debug("blacklist disabled for list", "list", entry.disableKey)
		}

		if result.Lists > 0 {
			e.sleep(ctx, listPause)
		}
		result.Lists++

		res, err := e.Process(ctx, events, ProcessOptions{
			Kind:             opts.Kind,
			List:             entry.list,
			AuthenticateUser: entry.authenticateUser,
			Limit:            entry.limit,
			Delay:            opts.Delay,
			DryRun:           opts.DryRun,
			NoSearch:         opts.NoSearch,
			IgnoreBlacklist:  ignoreBlacklist,
		})
		if err != nil {
			logger.Error("automatic list run failed", "list", entry.disableKey, "error", err)
			continue
		}
		if res != nil {
			result.Added += res.Added
		}
	}

	logger.Info("automatic sweep finished", "lists", result.Lists, "added", result.Added)
	return result, nil
}

func (e *Engine) automaticFor(kind models.Kind) shared.AutomaticMedia {
	if kind == models.KindMovie {
		return e.cfg.Automatic.Movies
	}
	return e.cfg.Automatic.Shows
}

// sweepLists expands the configuration into the ordered lists a sweep
// covers. Public lists come in a fixed order; user lists iterate the
// watchlist and custom-list maps.
func (e *Engine) sweepLists(kind models.Kind, scope Scope, cfg shared.AutomaticMedia) []automaticList {
	var lists []automaticList
	if scope == PublicLists {
		lists = append(lists,
			automaticList{list: "anticipated", limit: cfg.Anticipated, disableKey: "anticipated"},
			automaticList{list: "trending", limit: cfg.Trending, disableKey: "trending"},
			automaticList{list: "popular", limit: cfg.Popular, disableKey: "popular"},
		)
		if kind == models.KindMovie {
			lists = append(lists, automaticList{list: "boxoffice", limit: cfg.Boxoffice, disableKey: "boxoffice"})
		}
		return lists
	}

	for user, limit := range cfg.Watchlist {
		lists = append(lists, automaticList{
			list:             "watchlist",
			limit:            limit,
			authenticateUser: user,
			disableKey:       "watchlist:" + user,
		})
	}
	for name, ul := range cfg.Lists {
		lists = append(lists, automaticList{
			list:             name,
			limit:            ul.Limit,
			authenticateUser: ul.AuthenticateUser,
			disableKey:       "list:" + name,
		})
	}
	return lists
}

func disabledSet(disabledFor []string) map[string]struct{} {
	set := make(map[string]struct{}, len(disabledFor))
	for _, d := range disabledFor {
		set[strings.ToLower(d)] = struct{}{}
	}
	return set
}
