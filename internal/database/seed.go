package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Seed populates empty tables with the initial back-office data set:
// one account per role, two suppliers with their products, and two clients.
// Tables that already contain rows are left untouched.
func Seed(ctx context.Context, db *sql.DB, logger *zap.Logger) error {
	if err := seedUsers(ctx, db, logger); err != nil {
		return err
	}
	if err := seedCatalog(ctx, db, logger); err != nil {
		return err
	}
	return seedClients(ctx, db, logger)
}

func seedUsers(ctx context.Context, db *sql.DB, logger *zap.Logger) error {
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	accounts := []struct {
		username string
		password string
		roles    []string
	}{
		{"admin", "admin123", []string{"ADMIN", "MANAGER"}},
		{"manager", "manager123", []string{"MANAGER"}},
		{"staff", "staff123", []string{"STAFF"}},
	}

	for _, a := range accounts {
		hash, err := bcrypt.GenerateFromPassword([]byte(a.password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash seed password: %w", err)
		}
		_, err = db.ExecContext(ctx,
			`INSERT INTO users (id, username, password_hash, roles) VALUES ($1, $2, $3, $4)`,
			uuid.New(), a.username, string(hash), strings.Join(a.roles, ","),
		)
		if err != nil {
			return fmt.Errorf("failed to seed user %s: %w", a.username, err)
		}
	}

	logger.Info("Seeded default users", zap.Int("count", len(accounts)))
	return nil
}

func seedCatalog(ctx context.Context, db *sql.DB, logger *zap.Logger) error {
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM suppliers").Scan(&count); err != nil {
		return fmt.Errorf("failed to count suppliers: %w", err)
	}
	if count > 0 {
		return nil
	}

	steel := uuid.New()
	utensils := uuid.New()

	suppliers := []struct {
		id       uuid.UUID
		name     string
		contact  string
		products []string
	}{
		{steel, "Global Steel Supplies", "contact@globalsteel.com", []string{"Plates", "Bowls"}},
		{utensils, "Premium Utensils Inc.", "info@premiumutensils.com", []string{"Spoons", "Forks", "Knives"}},
	}

	for _, s := range suppliers {
		_, err := db.ExecContext(ctx,
			`INSERT INTO suppliers (id, name, contact_info, supplied_products) VALUES ($1, $2, $3, $4)`,
			s.id, s.name, s.contact, strings.Join(s.products, ","),
		)
		if err != nil {
			return fmt.Errorf("failed to seed supplier %s: %w", s.name, err)
		}
	}

	products := []struct {
		name        string
		category    string
		description string
		price       string
		stock       int
		supplierID  uuid.UUID
	}{
		{"Stainless Steel Plate", "Plates", "Durable SS plate", "2.50", 500, steel},
		{"Cutlery Set", "Cutlery", "Knife, fork, spoon set", "5.00", 300, utensils},
	}

	for _, p := range products {
		_, err := db.ExecContext(ctx,
			`INSERT INTO products (id, name, category, description, price, quantity_in_stock, supplier_id)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			uuid.New(), p.name, p.category, p.description, p.price, p.stock, p.supplierID,
		)
		if err != nil {
			return fmt.Errorf("failed to seed product %s: %w", p.name, err)
		}
	}

	logger.Info("Seeded catalog",
		zap.Int("suppliers", len(suppliers)),
		zap.Int("products", len(products)),
	)
	return nil
}

func seedClients(ctx context.Context, db *sql.DB, logger *zap.Logger) error {
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM clients").Scan(&count); err != nil {
		return fmt.Errorf("failed to count clients: %w", err)
	}
	if count > 0 {
		return nil
	}

	clients := []struct {
		name         string
		contact      string
		country      string
		businessType string
	}{
		{"Ocean Imports", "sales@oceanimports.com", "India", "Importer"},
		{"Euro Trade GmbH", "contact@eurotrade.de", "Germany", "Distributor"},
	}

	for _, c := range clients {
		_, err := db.ExecContext(ctx,
			`INSERT INTO clients (id, name, contact_info, country, business_type) VALUES ($1, $2, $3, $4, $5)`,
			uuid.New(), c.name, c.contact, c.country, c.businessType,
		)
		if err != nil {
			return fmt.Errorf("failed to seed client %s: %w", c.name, err)
		}
	}

	logger.Info("Seeded clients", zap.Int("count", len(clients)))
	return nil
}
