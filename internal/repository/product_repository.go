package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/terraquest/terraquest-backend/internal/models"
)

// ProductRepository handles product catalog database operations.
type ProductRepository struct {
	db *DB
}

// NewProductRepository creates a new product repository.
func NewProductRepository(db *DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// GetAll retrieves the full product catalog.
func (r *ProductRepository) GetAll() ([]models.Product, error) {
	var products []models.Product
	err := r.db.Order("name ASC").Find(&products).Error
	return products, err
}

// GetByBarcode retrieves a product by its exact barcode. Returns (nil, nil)
// when no product matches.
func (r *ProductRepository) GetByBarcode(barcode string) (*models.Product, error) {
	var product models.Product
	err := r.db.Where("barcode = ?", barcode).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// SearchByName retrieves the first product whose name contains the query,
// case-insensitively. Returns (nil, nil) when nothing matches.
func (r *ProductRepository) SearchByName(query string) (*models.Product, error) {
	var product models.Product
	needle := "%" + strings.ToLower(query) + "%"
	err := r.db.Where("LOWER(name) LIKE ?", needle).Order("name ASC").First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// Count returns the number of catalog products.
func (r *ProductRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Product{}).Count(&count).Error
	return count, err
}

// LevelRepository handles level table database operations.
type LevelRepository struct {
	db *DB
}

// NewLevelRepository creates a new level repository.
func NewLevelRepository(db *DB) *LevelRepository {
	return &LevelRepository{db: db}
}

// GetAll retrieves all level tiers ordered by position.
func (r *LevelRepository) GetAll() ([]models.Level, error) {
	var levels []models.Level
	err := r.db.Order("position ASC").Find(&levels).Error
	return levels, err
}
