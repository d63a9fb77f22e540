package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/beanery/storefront/internal/domain"
	"github.com/beanery/storefront/internal/infrastructure/catalogapi"
)

const productColumns = `id, slug, name, name_ar, description, description_ar, price, discount,
	discount_type, stock_quantity, image_url, variations, updated_at`

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

// GetProduct loads one product with its variations
func (s *Store) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	query := rebind(s.driver, `SELECT `+productColumns+` FROM products WHERE id = ?`)

	product, err := scanProduct(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		log.Printf("[SQL] GetProduct %q failed: %v", id, err)
		return nil, err
	}
	return product, nil
}

// ListProducts returns every product ordered by name
func (s *Store) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+productColumns+` FROM products ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *product)
	}
	return products, rows.Err()
}

// SaveProduct inserts or replaces a product
func (s *Store) SaveProduct(ctx context.Context, product *domain.Product) error {
	variations, err := json.Marshal(product.Variations)
	if err != nil {
		return fmt.Errorf("encode variations: %w", err)
	}

	var discount sql.NullFloat64
	if product.Discount != nil {
		discount = sql.NullFloat64{Float64: *product.Discount, Valid: true}
	}
	var stock sql.NullInt64
	if product.StockQuantity != nil {
		stock = sql.NullInt64{Int64: int64(*product.StockQuantity), Valid: true}
	}

	_, err = s.db.ExecContext(ctx, upsertQuery(s.driver),
		product.ID, product.Slug, product.Name, product.NameAr,
		product.Description, product.DescriptionAr, product.Price, discount,
		string(product.DiscountType), stock, product.ImageURL, string(variations), product.UpdatedAt,
	)
	if err != nil {
		log.Printf("[SQL] SaveProduct %q failed: %v", product.ID, err)
		return err
	}
	return nil
}

func upsertQuery(driver string) string {
	insert := `INSERT INTO products (` + productColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if driver == DriverMySQL {
		return insert + ` ON DUPLICATE KEY UPDATE
	slug = VALUES(slug), name = VALUES(name), name_ar = VALUES(name_ar),
	description = VALUES(description), description_ar = VALUES(description_ar),
	price = VALUES(price), discount = VALUES(discount), discount_type = VALUES(discount_type),
	stock_quantity = VALUES(stock_quantity), image_url = VALUES(image_url),
	variations = VALUES(variations), updated_at = VALUES(updated_at)`
	}
	return rebind(driver, insert+` ON CONFLICT (id) DO UPDATE SET
	slug = EXCLUDED.slug, name = EXCLUDED.name, name_ar = EXCLUDED.name_ar,
	description = EXCLUDED.description, description_ar = EXCLUDED.description_ar,
	price = EXCLUDED.price, discount = EXCLUDED.discount, discount_type = EXCLUDED.discount_type,
	stock_quantity = EXCLUDED.stock_quantity, image_url = EXCLUDED.image_url,
	variations = EXCLUDED.variations, updated_at = EXCLUDED.updated_at`)
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var (
		p                                 domain.Product
		description, descriptionAr, image sql.NullString
		discount                          sql.NullFloat64
		discountType                      string
		stock                             sql.NullInt64
		variations                        []byte
	)

	err := row.Scan(
		&p.ID, &p.Slug, &p.Name, &p.NameAr, &description, &descriptionAr, &p.Price, &discount,
		&discountType, &stock, &image, &variations, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Description = description.String
	p.DescriptionAr = descriptionAr.String
	p.ImageURL = image.String
	p.DiscountType = catalogapi.MapDiscountType(discountType)
	if discount.Valid {
		d := discount.Float64
		p.Discount = catalogapi.SanitizeDiscount("product "+p.ID, &d, p.DiscountType)
	}
	if stock.Valid {
		q := int(stock.Int64)
		p.StockQuantity = &q
	}

	p.Variations, err = catalogapi.DecodeVariations(variations)
	if err != nil {
		return nil, fmt.Errorf("product %s: %w", p.ID, err)
	}
	return &p, nil
}
