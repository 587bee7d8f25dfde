package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/ecofinds/internal/domain/catalog"
	"github.com/lib/pq"
)

// ConnectPostgres establishes a connection to PostgreSQL
func ConnectPostgres(connStr string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

const catalogQuery = `
	SELECT id, title, price, original_price, condition, category, description, images,
	       seller_id, seller_name, seller_avatar, seller_verified, seller_rating,
	       location, co2_saved, created_at
	FROM catalog_products
	ORDER BY position ASC, created_at DESC`

// LoadCatalog reads the catalog snapshot once at startup. The table is read-only for this service.
// Rows are returned as stored; callers drop invalid ones with catalog.ValidProducts.
func LoadCatalog(ctx context.Context, db *sql.DB) ([]catalog.Product, error) {
	rows, err := db.QueryContext(ctx, catalogQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query catalog: %w", err)
	}
	defer rows.Close()

	var products []catalog.Product
	for rows.Next() {
		var (
			p             catalog.Product
			originalPrice sql.NullFloat64
			condition     string
			images        []string
			sellerAvatar  sql.NullString
		)
		if err := rows.Scan(
			&p.ID, &p.Title, &p.Price, &originalPrice, &condition, &p.Category, &p.Description,
			pq.Array(&images),
			&p.Seller.ID, &p.Seller.Name, &sellerAvatar, &p.Seller.Verified, &p.Seller.Rating,
			&p.Location, &p.CO2Saved, &p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan catalog row: %w", err)
		}

		p.Condition = rowCondition(condition)
		if originalPrice.Valid {
			v := originalPrice.Float64
			p.OriginalPrice = &v
		}
		p.Seller.Avatar = sellerAvatar.String
		p.Images = images
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return products, nil
}

// rowCondition normalizes a stored condition. Unknown values are kept verbatim so that
// Product.Validate rejects the row instead of failing the whole load.
func rowCondition(raw string) catalog.Condition {
	if c, err := catalog.ParseCondition(raw); err == nil {
		return c
	}
	return catalog.Condition(raw)
}
