package repository

import (
	"testing"

	"github.com/terraquest/terraquest-backend/internal/models"
)

func TestProductRepository_GetByBarcode(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProductRepository(db)

	createTestProduct(t, db, "12345", "Coca-Cola 500ml", 45, 65)

	product, err := repo.GetByBarcode("12345")
	if err != nil {
		t.Fatalf("GetByBarcode() failed: %v", err)
	}
	if product == nil {
		t.Fatal("Expected product, got nil")
	}
	if product.Name != "Coca-Cola 500ml" {
		t.Errorf("Expected name 'Coca-Cola 500ml', got %q", product.Name)
	}

	// Unknown barcode is a miss, not an error
	product, err = repo.GetByBarcode("00000")
	if err != nil {
		t.Fatalf("GetByBarcode() miss failed: %v", err)
	}
	if product != nil {
		t.Errorf("Expected nil for unknown barcode, got %+v", product)
	}
}

func TestProductRepository_SearchByName(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProductRepository(db)

	createTestProduct(t, db, "12345", "Coca-Cola 500ml", 45, 65)
	createTestProduct(t, db, "44444", "Bamboo Toothbrush", 92, 10)

	tests := []struct {
		name        string
		query       string
		wantBarcode string
	}{
		{"exact word", "Bamboo Toothbrush", "44444"},
		{"substring", "cola", "12345"},
		{"case insensitive", "BAMBOO", "44444"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			product, err := repo.SearchByName(tt.query)
			if err != nil {
				t.Fatalf("SearchByName(%q) failed: %v", tt.query, err)
			}
			if product == nil {
				t.Fatalf("SearchByName(%q) returned nil", tt.query)
			}
			if product.Barcode != tt.wantBarcode {
				t.Errorf("Expected barcode %q, got %q", tt.wantBarcode, product.Barcode)
			}
		})
	}

	product, err := repo.SearchByName("does-not-exist")
	if err != nil {
		t.Fatalf("SearchByName() miss failed: %v", err)
	}
	if product != nil {
		t.Errorf("Expected nil for unknown name, got %+v", product)
	}
}

func TestProductRepository_GetAll(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProductRepository(db)

	createTestProduct(t, db, "11111", "Organic Apples", 88, 15)
	createTestProduct(t, db, "22222", "Plastic Water Bottle", 25, 45)

	products, err := repo.GetAll()
	if err != nil {
		t.Fatalf("GetAll() failed: %v", err)
	}
	if len(products) != 2 {
		t.Errorf("Expected 2 products, got %d", len(products))
	}

	count, err := repo.Count()
	if err != nil {
		t.Fatalf("Count() failed: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected count 2, got %d", count)
	}
}

func TestLevelRepository_GetAll_Ordered(t *testing.T) {
	db := setupTestDB(t)
	repo := NewLevelRepository(db)

	levels := []models.Level{
		{Name: "Green Warrior", MinPoints: 1000, MaxPoints: 2000, Position: 3},
		{Name: "Eco Rookie", MinPoints: 0, MaxPoints: 200, Position: 1},
		{Name: "Green Starter", MinPoints: 200, MaxPoints: 1000, Position: 2},
	}
	if err := db.Create(&levels).Error; err != nil {
		t.Fatalf("Failed to create levels: %v", err)
	}

	got, err := repo.GetAll()
	if err != nil {
		t.Fatalf("GetAll() failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Expected 3 levels, got %d", len(got))
	}
	if got[0].Name != "Eco Rookie" || got[2].Name != "Green Warrior" {
		t.Errorf("Expected position order, got %q .. %q", got[0].Name, got[2].Name)
	}
}
