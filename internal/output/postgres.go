package output

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"

	"burritowatch/internal/models"
)

// PostgresOutput inserts one row per batch message into menu_summaries,
// building up a price history across runs.
type PostgresOutput struct {
	db *sql.DB
}

const menuSummariesSchema = `
CREATE TABLE IF NOT EXISTS menu_summaries (
    event_id              TEXT PRIMARY KEY,
    run_id                TEXT NOT NULL,
    recorded_at           TIMESTAMPTZ NOT NULL,
    restaurant_id         INTEGER NOT NULL,
    zip_code              TEXT NOT NULL,
    veggie_normal_price   DOUBLE PRECISION,
    veggie_delivery_price DOUBLE PRECISION,
    chicken_normal_price  DOUBLE PRECISION,
    chicken_delivery_price DOUBLE PRECISION,
    steak_normal_price    DOUBLE PRECISION,
    steak_delivery_price  DOUBLE PRECISION,
    fetch_error           TEXT
)`

func NewPostgresOutput(config *models.DatabaseConfig) (*PostgresOutput, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		config.Host, config.Port, config.User, config.Password, config.DBName, config.SSLMode,
	)

	db, err := sql.Open("pgx", connStr)
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error pinging database: %w", err)
	}
	if _, err := db.Exec(menuSummariesSchema); err != nil {
		return nil, fmt.Errorf("error ensuring menu_summaries table: %w", err)
	}

	return &PostgresOutput{db: db}, nil
}

func (p *PostgresOutput) WriteMessage(topic string, msg []byte) error {
	var message Message
	if err := json.Unmarshal(msg, &message); err != nil {
		return err
	}

	var veggieNormal, veggieDelivery, chickenNormal, chickenDelivery, steakNormal, steakDelivery sql.NullFloat64
	if menu := message.Menu; menu != nil {
		veggieNormal = sql.NullFloat64{Float64: menu.VeggieBowlPrice.NormalPrice, Valid: true}
		veggieDelivery = sql.NullFloat64{Float64: menu.VeggieBowlPrice.DeliveryPrice, Valid: true}
		chickenNormal = sql.NullFloat64{Float64: menu.ChickenBowlPrice.NormalPrice, Valid: true}
		chickenDelivery = sql.NullFloat64{Float64: menu.ChickenBowlPrice.DeliveryPrice, Valid: true}
		steakNormal = sql.NullFloat64{Float64: menu.SteakBowlPrice.NormalPrice, Valid: true}
		steakDelivery = sql.NullFloat64{Float64: menu.SteakBowlPrice.DeliveryPrice, Valid: true}
	}
	fetchError := sql.NullString{String: message.Error, Valid: message.Error != ""}

	_, err := p.db.Exec(`
		INSERT INTO menu_summaries (
			event_id, run_id, recorded_at, restaurant_id, zip_code,
			veggie_normal_price, veggie_delivery_price,
			chicken_normal_price, chicken_delivery_price,
			steak_normal_price, steak_delivery_price,
			fetch_error
		) VALUES ($1, $2, to_timestamp($3), $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		message.EventID, message.RunID, message.Timestamp,
		message.Location.ID, message.Location.ZipCode,
		veggieNormal, veggieDelivery,
		chickenNormal, chickenDelivery,
		steakNormal, steakDelivery,
		fetchError,
	)
	if err != nil {
		return fmt.Errorf("failed to insert into menu_summaries: %w", err)
	}
	return nil
}

func (p *PostgresOutput) Close() error {
	return p.db.Close()
}
