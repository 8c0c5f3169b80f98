package polls

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/lordralex/ballot/api"
	"github.com/lordralex/ballot/api/database"
	"github.com/lordralex/ballot/api/env"
	"github.com/lordralex/ballot/api/logger"
	"golang.org/x/sync/errgroup"
)

type Module struct {
	service   *Service
	sweeper   *Sweeper
	analytics *PosthogAnalytics

	cancel context.CancelFunc
	group  *errgroup.Group
	admin  *http.Server
}

func (m *Module) Load(ds *discordgo.Session) error {
	store, err := openStore()
	if err != nil {
		return err
	}

	opts := []ServiceOption{
		WithStoreTimeout(env.GetDurationOr("polls.store.timeout", defaultStoreTimeout)),
		WithNotifyTimeout(env.GetDurationOr("polls.notify.timeout", defaultNotifyTimeout)),
	}
	if key := env.Get("posthog.api.key"); key != "" {
		m.analytics, err = NewPosthogAnalytics(key, env.Get("posthog.endpoint"))
		if err != nil {
			return err
		}
		opts = append(opts, WithAnalytics(m.analytics))
	}

	m.service = NewService(store, newDiscordNotifier(ds), opts...)
	m.sweeper = NewSweeper(m.service, env.GetDurationOr("polls.sweep.interval", DefaultSweepInterval))

	api.RegisterIntentNeed(discordgo.IntentsGuilds)
	api.RegisterCommand(createPollOperation, m.runCreateCommand)
	api.RegisterCommand(closePollOperation, m.runCloseCommand)
	api.RegisterCommand(pollResultsOperation, m.runResultsCommand)
	ds.AddHandler(m.onComponent)

	var ctx context.Context
	ctx, m.cancel = context.WithCancel(context.Background())
	m.group, ctx = errgroup.WithContext(ctx)

	m.group.Go(func() error {
		m.sweeper.Run(ctx)
		return nil
	})

	if addr := env.Get("polls.admin.addr"); addr != "" {
		m.admin = &http.Server{
			Addr:              addr,
			Handler:           NewAdminRouter(m.service, m.sweeper, env.Get("polls.admin.token")),
			ReadHeaderTimeout: 5 * time.Second,
		}
		m.group.Go(func() error {
			logger.Out().Printf("Poll admin API listening on %s\n", addr)
			err := m.admin.ListenAndServe()
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		})
	}

	return nil
}

// Close stops the sweeper and the admin API and waits for both to finish.
func (m *Module) Close() error {
	if m.cancel == nil {
		return nil
	}

	if m.admin != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := m.admin.Shutdown(ctx); err != nil {
			logger.Err().Printf("Error stopping poll admin API: %s\n", err.Error())
		}
	}

	m.cancel()
	err := m.group.Wait()

	if m.analytics != nil {
		//flushes queued events
		err = errors.Join(err, m.analytics.Close())
	}
	return err
}

func (*Module) Name() string {
	return "polls"
}

func openStore() (Store, error) {
	if strings.EqualFold(env.GetOr("database.dialect", "mysql"), "memory") {
		logger.Out().Println("Polls are kept in memory and will not survive a restart")
		return NewMemoryStore(), nil
	}

	db, err := database.Get()
	if err != nil {
		return nil, err
	}
	return NewGormStore(db)
}
