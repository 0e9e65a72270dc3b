package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatal("DB_DSN environment variable is required")
	}
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get DB: %v", err)
	}

	stmts := []string{`
	CREATE TABLE IF NOT EXISTS products (
	  id CHAR(36) NOT NULL,
	  name VARCHAR(255) NOT NULL,
	  slug VARCHAR(255) NOT NULL,
	  description TEXT NULL,
	  status VARCHAR(16) NOT NULL DEFAULT 'draft',
	  created_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
	  updated_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
	  PRIMARY KEY (id),
	  UNIQUE KEY ux_products_slug (slug)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`, `
	CREATE TABLE IF NOT EXISTS product_variants (
	  id CHAR(36) NOT NULL,
	  product_id CHAR(36) NOT NULL,
	  sku VARCHAR(64) NULL,
	  options_json JSON NOT NULL,
	  position INT NOT NULL DEFAULT 0,
	  price_cents INT NOT NULL DEFAULT 0,
	  compare_at_cents INT NOT NULL DEFAULT 0,
	  cost_cents INT NOT NULL DEFAULT 0,
	  currency CHAR(3) NOT NULL DEFAULT 'EUR',
	  stock INT NOT NULL DEFAULT 0,
	  stock_status VARCHAR(16) NOT NULL DEFAULT 'instock',
	  description TEXT NULL,
	  images_json JSON NULL,
	  created_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
	  updated_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
	  PRIMARY KEY (id),
	  UNIQUE KEY ux_product_variants_sku (sku),
	  KEY ix_product_variants_product_id (product_id, position),
	  CONSTRAINT fk_product_variants_product FOREIGN KEY (product_id) REFERENCES products(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	}

	for _, sql := range stmts {
		if _, err := sqlDB.Exec(sql); err != nil {
			log.Fatalf("Failed to create tables: %v", err)
		}
	}

	log.Println("✓ products table ready")
	log.Println("✓ product_variants table ready")
}
