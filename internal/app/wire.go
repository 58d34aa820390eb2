package app

import (
	"log/slog"
	"net/http"

	"sealbox/internal/backend"
	"sealbox/internal/domain"
	"sealbox/internal/platform/ratelimit"
	groupsvc "sealbox/internal/services/group"
	identitysvc "sealbox/internal/services/identity"
	messagesvc "sealbox/internal/services/message"
	"sealbox/internal/store"
)

// App bundles the wired services and stores.
type App struct {
	Identity *identitysvc.Service
	Groups   *groupsvc.Service
	Messages *messagesvc.Service

	Directory domain.DirectoryStore
}

// Wire constructs the dependency graph from cfg. With a backend URL the
// stores are remote; otherwise everything lives in files under cfg.Home.
func Wire(cfg Config, log *slog.Logger) (*App, error) {
	if log == nil {
		log = slog.Default()
	}

	var (
		dir    domain.DirectoryStore
		groups domain.GroupStore
		msgs   domain.MessageStore
	)
	if cfg.Backend != "" {
		client := backend.NewClient(cfg.Backend, http.DefaultClient)
		dir, groups, msgs = client, client, client
	} else {
		dir = store.NewDirectory(cfg.Home)
		groups = store.NewGroups(cfg.Home)
		msgs = store.NewMessages(cfg.Home)
	}

	limiter := ratelimit.New(cfg.UnlockRPS, cfg.UnlockBurst)

	return &App{
		Identity:  identitysvc.New(dir, limiter, log),
		Groups:    groupsvc.New(dir, groups, log),
		Messages:  messagesvc.New(dir, groups, msgs, log),
		Directory: dir,
	}, nil
}
