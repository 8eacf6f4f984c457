package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/robfig/cron/v3"

	"github.com/dinecat/dinecat/internal/catalog"
	"github.com/dinecat/dinecat/internal/sales"
	"github.com/dinecat/dinecat/internal/sheet"
	"github.com/dinecat/dinecat/internal/slogutil"
)

// Fetcher downloads the raw sheet rows.
type Fetcher interface {
	Fetch(ctx context.Context) ([][]string, error)
}

// Rebuilder replaces the sale overlay with the feed's sale records.
type Rebuilder interface {
	Rebuild(ctx context.Context, records []sales.Record) error
}

// Config holds the reconciliation schedule settings.
type Config struct {
	Interval time.Duration
	Enabled  bool
}

// Service runs the periodic reconciliation: fetch, parse, diff, apply the
// deletions then the creations, rebuild the sale overlay. Runs are
// single-flight; a tick that fires while the previous run is still going is
// skipped.
type Service struct {
	config   Config
	fetcher  Fetcher
	parser   *sheet.Parser
	differ   *Differ
	menus    *catalog.MenuService
	submenus *catalog.SubmenuService
	dishes   *catalog.DishService
	sales    Rebuilder
	log      *slog.Logger

	mu      sync.Mutex
	running bool
	cron    *cron.Cron
	cancel  context.CancelFunc
}

// NewService creates a new reconciliation service.
func NewService(
	config Config,
	fetcher Fetcher,
	parser *sheet.Parser,
	differ *Differ,
	menus *catalog.MenuService,
	submenus *catalog.SubmenuService,
	dishes *catalog.DishService,
	rebuilder Rebuilder,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default().With("component", "reconcile")
	}
	return &Service{
		config:   config,
		fetcher:  fetcher,
		parser:   parser,
		differ:   differ,
		menus:    menus,
		submenus: submenus,
		dishes:   dishes,
		sales:    rebuilder,
		log:      logger,
	}
}

// Start begins the periodic schedule. A failed run is logged and the next
// tick starts from the sheet again, so no run depends on its predecessor.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("reconciler already running")
	}
	if !s.config.Enabled {
		s.log.Info("sheet reconciliation is disabled")
		return nil
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.cron = cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	s.cron.Schedule(cron.Every(s.config.Interval), cron.FuncJob(func() {
		if err := s.RunOnce(runCtx); err != nil {
			s.log.Error("reconciliation run failed", "err", err)
		}
	}))
	s.cron.Start()

	s.running = true
	s.log.Info("sheet reconciliation started", "interval", s.config.Interval)
	return nil
}

// Stop cancels the schedule and waits for an in-flight run to finish.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.cancel()
	<-s.cron.Stop().Done()
	s.running = false
	s.log.Info("sheet reconciliation stopped")
}

// RunOnce executes a single reconciliation pass. Per-menu apply failures are
// logged and skipped; there is no rollback, the next run converges again.
func (s *Service) RunOnce(ctx context.Context) error {
	started := time.Now()
	ctx = slogutil.With(ctx, "run_id", uuid.NewString())

	rows, err := s.fetcher.Fetch(ctx)
	if err != nil {
		return err
	}

	feed := s.parser.Parse(rows)

	diff, err := s.differ.Plan(ctx, feed)
	if err != nil {
		return err
	}

	// Deletions go first: a replaced menu must be gone before its successor
	// is created under the same natural key.
	deleted := 0
	for _, id := range diff.Delete {
		if err := s.menus.Delete(ctx, id); err != nil {
			s.log.Error("failed to delete unconfirmed menu", "menu_id", id, "err", err)
			continue
		}
		deleted++
	}

	created := 0
	for _, menu := range diff.Create {
		if err := s.createMenu(ctx, menu); err != nil {
			s.log.Error("failed to create menu from feed", "title", menu.Title, "err", err)
			continue
		}
		created++
	}

	if err := s.sales.Rebuild(ctx, feed.Sales); err != nil {
		return fmt.Errorf("failed to rebuild sale overlay: %w", err)
	}

	s.log.Info("reconciliation run complete",
		"deleted", deleted,
		"created", created,
		"sales", len(feed.Sales),
		"elapsed", time.Since(started))
	return nil
}

// createMenu materializes one feed menu with its whole subtree, in feed
// order so stored order keeps matching the sheet.
func (s *Service) createMenu(ctx context.Context, menu sheet.Menu) error {
	var menuIn catalog.MenuInput
	if err := copier.Copy(&menuIn, &menu); err != nil {
		return fmt.Errorf("failed to map menu input: %w", err)
	}

	createdMenu, err := s.menus.Create(ctx, menuIn)
	if err != nil {
		return err
	}

	for _, submenu := range menu.Submenus {
		var submenuIn catalog.SubmenuInput
		if err := copier.Copy(&submenuIn, &submenu); err != nil {
			return fmt.Errorf("failed to map submenu input: %w", err)
		}

		createdSubmenu, err := s.submenus.Create(ctx, createdMenu.ID, submenuIn)
		if err != nil {
			return fmt.Errorf("failed to create submenu %q: %w", submenu.Title, err)
		}

		for _, dish := range submenu.Dishes {
			var dishIn catalog.DishInput
			if err := copier.Copy(&dishIn, &dish); err != nil {
				return fmt.Errorf("failed to map dish input: %w", err)
			}
			dishIn.Price = catalog.FormatPrice(dish.Price)

			if _, err := s.dishes.Create(ctx, createdMenu.ID, createdSubmenu.ID, dishIn); err != nil {
				return fmt.Errorf("failed to create dish %q: %w", dish.Title, err)
			}
		}
	}

	return nil
}
