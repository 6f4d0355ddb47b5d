package stub

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/dadikeladdu/storefront/internal/config"
	"github.com/dadikeladdu/storefront/internal/domain"
)

// NewConnection opens a Postgres connection for the stub backend
func NewConnection(cfg config.DatabaseConfig) (*sql.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

type postgresRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPostgresRepository creates a Postgres-backed cart repository. One row
// per user; the item list travels as JSONB.
func NewPostgresRepository(db *sql.DB, logger *zap.Logger) CartRepository {
	return &postgresRepository{db: db, logger: logger}
}

// EnsureSchema creates the carts table when missing
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	const ddl = `
		CREATE TABLE IF NOT EXISTS carts (
			user_id     TEXT PRIMARY KEY,
			cart_id     TEXT NOT NULL,
			items       JSONB NOT NULL DEFAULT '[]',
			discount    DOUBLE PRECISION NOT NULL DEFAULT 0,
			total_price DOUBLE PRECISION NOT NULL DEFAULT 0,
			grand_total DOUBLE PRECISION NOT NULL DEFAULT 0,
			status      TEXT NOT NULL DEFAULT 'active',
			updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`
	_, err := db.ExecContext(ctx, ddl)
	return err
}

func (r *postgresRepository) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	query := `
		SELECT cart_id, items, discount, total_price, grand_total, status
		FROM carts
		WHERE user_id = $1
	`

	var cart domain.Cart
	var itemsJSON []byte
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&cart.ID,
		&itemsJSON,
		&cart.Discount,
		&cart.TotalPrice,
		&cart.GrandTotal,
		&cart.Status,
	)
	if err == sql.ErrNoRows {
		return nil, ErrCartNotFound
	}
	if err != nil {
		r.logger.Error("Failed to query cart", zap.Error(err))
		return nil, err
	}

	cart.UserID = userID
	if err := json.Unmarshal(itemsJSON, &cart.Items); err != nil {
		return nil, fmt.Errorf("failed to decode cart items: %w", err)
	}
	return &cart, nil
}

func (r *postgresRepository) Save(ctx context.Context, cart *domain.Cart) error {
	itemsJSON, err := json.Marshal(cart.Items)
	if err != nil {
		return fmt.Errorf("failed to encode cart items: %w", err)
	}

	query := `
		INSERT INTO carts (user_id, cart_id, items, discount, total_price, grand_total, status, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		ON CONFLICT (user_id) DO UPDATE SET
			cart_id = EXCLUDED.cart_id,
			items = EXCLUDED.items,
			discount = EXCLUDED.discount,
			total_price = EXCLUDED.total_price,
			grand_total = EXCLUDED.grand_total,
			status = EXCLUDED.status,
			updated_at = now()
	`

	_, err = r.db.ExecContext(ctx, query,
		cart.UserID, cart.ID, itemsJSON, cart.Discount, cart.TotalPrice, cart.GrandTotal, cart.Status,
	)
	if err != nil {
		r.logger.Error("Failed to save cart", zap.Error(err))
	}
	return err
}

func (r *postgresRepository) Delete(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM carts WHERE user_id = $1`, userID)
	if err != nil {
		r.logger.Error("Failed to delete cart", zap.Error(err))
	}
	return err
}
