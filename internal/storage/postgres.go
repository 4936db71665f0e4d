package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"detailing-bot/internal/catalog"
	"detailing-bot/internal/config"

	"github.com/cenkalti/backoff/v4"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// PostgresStorage serves the catalog from Postgres.
type PostgresStorage struct {
	db     *sqlx.DB
	logger *zap.Logger
}

type serviceRow struct {
	ID    string `db:"id"`
	Name  string `db:"name"`
	Price int    `db:"price"`
}

type packageRow struct {
	ID          string `db:"id"`
	Name        string `db:"name"`
	Price       int    `db:"price"`
	Description string `db:"description"`
	Popular     bool   `db:"popular"`
	Savings     int    `db:"savings"`
}

type packageFeatureRow struct {
	PackageID string `db:"package_id"`
	Feature   string `db:"feature"`
}

type packageServiceRow struct {
	PackageID string `db:"package_id"`
	ServiceID string `db:"service_id"`
}

var _ catalog.Provider = (*PostgresStorage)(nil)

func NewPostgresStorage(ctx context.Context, cfg config.Database, logger *zap.Logger) (*PostgresStorage, error) {
	const operation = "storage.NewPostgresStorage"

	var db *sqlx.DB

	retryPolicy := backoff.NewExponentialBackOff()
	retryPolicy.MaxElapsedTime = 2 * time.Minute
	retryPolicy.MaxInterval = 15 * time.Second

	logger.Info("Connecting to PostgreSQL...", zap.String("host", cfg.Host), zap.String("db", cfg.Name))

	err := backoff.RetryNotify(
		func() error {
			conn, err := sqlx.ConnectContext(ctx, "postgres", cfg.DSN())
			if err != nil {
				return fmt.Errorf("connect: %w", err)
			}
			if err := conn.PingContext(ctx); err != nil {
				conn.Close()
				return fmt.Errorf("ping: %w", err)
			}
			db = conn
			return nil
		},
		backoff.WithContext(retryPolicy, ctx),
		func(err error, duration time.Duration) {
			logger.Warn("PostgreSQL connection failed, retrying...",
				zap.Error(err),
				zap.Duration("next_attempt_in", duration))
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to connect after retries: %w", operation, err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	logger.Info("Successfully connected to PostgreSQL")
	return &PostgresStorage{db: db, logger: logger}, nil
}

// DB exposes the underlying handle for migrations.
func (s *PostgresStorage) DB() *sql.DB {
	return s.db.DB
}

// Catalog implements catalog.Provider.
func (s *PostgresStorage) Catalog(ctx context.Context) (*catalog.Catalog, error) {
	return s.LoadCatalog(ctx)
}

// LoadCatalog reads services and packages in display order.
func (s *PostgresStorage) LoadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	const operation = "storage.LoadCatalog"

	var services []serviceRow
	if err := s.db.SelectContext(ctx, &services,
		`SELECT id, name, price FROM services ORDER BY position, id`); err != nil {
		return nil, fmt.Errorf("%s: failed to get services: %w", operation, err)
	}

	var packages []packageRow
	if err := s.db.SelectContext(ctx, &packages,
		`SELECT id, name, price, description, popular, savings FROM packages ORDER BY position, id`); err != nil {
		return nil, fmt.Errorf("%s: failed to get packages: %w", operation, err)
	}

	var features []packageFeatureRow
	if err := s.db.SelectContext(ctx, &features,
		`SELECT package_id, feature FROM package_features ORDER BY package_id, position`); err != nil {
		return nil, fmt.Errorf("%s: failed to get package features: %w", operation, err)
	}

	var includes []packageServiceRow
	if err := s.db.SelectContext(ctx, &includes,
		`SELECT ps.package_id, ps.service_id
		   FROM package_services ps
		   JOIN services s ON s.id = ps.service_id
		  ORDER BY ps.package_id, s.position`); err != nil {
		return nil, fmt.Errorf("%s: failed to get package services: %w", operation, err)
	}

	c, err := assembleCatalog(services, packages, features, includes)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}

	s.logger.Debug("Catalog loaded from PostgreSQL",
		zap.Int("services", len(services)),
		zap.Int("packages", len(packages)))
	return c, nil
}

func (s *PostgresStorage) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func assembleCatalog(
	services []serviceRow,
	packages []packageRow,
	features []packageFeatureRow,
	includes []packageServiceRow,
) (*catalog.Catalog, error) {
	featuresByPackage := make(map[string][]string)
	for _, f := range features {
		featuresByPackage[f.PackageID] = append(featuresByPackage[f.PackageID], f.Feature)
	}
	includesByPackage := make(map[string][]string)
	for _, in := range includes {
		includesByPackage[in.PackageID] = append(includesByPackage[in.PackageID], in.ServiceID)
	}

	outServices := make([]catalog.Service, 0, len(services))
	for _, s := range services {
		outServices = append(outServices, catalog.Service{ID: s.ID, Name: s.Name, Price: s.Price})
	}

	outPackages := make([]catalog.Package, 0, len(packages))
	for _, p := range packages {
		outPackages = append(outPackages, catalog.Package{
			ID:          p.ID,
			Name:        p.Name,
			Price:       p.Price,
			Description: p.Description,
			Features:    featuresByPackage[p.ID],
			Popular:     p.Popular,
			Savings:     p.Savings,
			Includes:    includesByPackage[p.ID],
		})
	}

	return catalog.New(outServices, outPackages)
}
