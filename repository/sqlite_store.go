package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"finmarket/domain"
)

// SQLiteStore keeps the catalog and submitted applications in SQLite.
// It implements both CatalogRepository and ApplicationRepository.
type SQLiteStore struct {
	db *gorm.DB
}

var (
	_ CatalogRepository     = (*SQLiteStore)(nil)
	_ ApplicationRepository = (*SQLiteStore)(nil)
)

type productRow struct {
	ID              int      `gorm:"primaryKey;autoIncrement:false"`
	Position        int      `gorm:"index"`
	Title           string   `gorm:"not null"`
	Category        string   `gorm:"index;not null"`
	Rate            float64  `gorm:"not null"`
	Bank            string   `gorm:"not null"`
	Description     string
	Features        []string `gorm:"serializer:json"`
	Badge           string
	FullDescription string
	Requirements    []string `gorm:"serializer:json"`
	Documents       []string `gorm:"serializer:json"`
	Benefits        []string `gorm:"serializer:json"`
	GraceDays       int
	Cashback        string
	Limit           string `gorm:"column:credit_limit"`
	Period          string
	MinAmount       string
	MaxAmount       string
}

func (productRow) TableName() string { return "products" }

type reviewRow struct {
	ID        int `gorm:"primaryKey;autoIncrement:false"`
	Position  int `gorm:"index"`
	ProductID int `gorm:"index"`
	Author    string
	Rating    int
	Date      string
	Text      string
	Pros      []string `gorm:"serializer:json"`
	Cons      []string `gorm:"serializer:json"`
	Helpful   int
}

func (reviewRow) TableName() string { return "reviews" }

type applicationRow struct {
	ID          string    `gorm:"primaryKey"`
	DraftID     string    `gorm:"index"`
	ProductType string    `gorm:"not null"`
	Amount      float64
	Income      float64
	Employment  string
	SubmittedAt time.Time `gorm:"index"`
}

func (applicationRow) TableName() string { return "applications" }

// OpenSQLite opens (or creates) the database at path and migrates the schema.
// Use ":memory:" for a throwaway database.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	if path == ":memory:" {
		// every pooled connection would otherwise see its own empty database
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("sqlite handle: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}
	if err := db.AutoMigrate(&productRow{}, &reviewRow{}, &applicationRow{}); err != nil {
		return nil, fmt.Errorf("migrate sqlite schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Seed loads the catalog into empty tables. A populated catalog is left as is.
func (s *SQLiteStore) Seed(ctx context.Context, c domain.Catalog) error {
	var n int64
	if err := s.db.WithContext(ctx).Model(&productRow{}).Count(&n).Error; err != nil {
		return fmt.Errorf("count products: %w", err)
	}
	if n > 0 {
		return nil
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, p := range c.Products {
			row := toProductRow(i, p)
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("insert product %d: %w", p.ID, err)
			}
		}
		for i, r := range c.Reviews {
			row := toReviewRow(i, r)
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("insert review %d: %w", r.ID, err)
			}
		}
		return nil
	})
}

func (s *SQLiteStore) Products(ctx context.Context) ([]domain.Product, error) {
	var rows []productRow
	if err := s.db.WithContext(ctx).Order("position").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	out := make([]domain.Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (s *SQLiteStore) Product(ctx context.Context, id int) (domain.Product, error) {
	var row productRow
	err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Product{}, fmt.Errorf("product %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Product{}, fmt.Errorf("get product %d: %w", id, err)
	}
	return row.toDomain(), nil
}

func (s *SQLiteStore) Reviews(ctx context.Context) ([]domain.Review, error) {
	var rows []reviewRow
	if err := s.db.WithContext(ctx).Order("position").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	out := make([]domain.Review, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.Review{
			ID:        row.ID,
			ProductID: row.ProductID,
			Author:    row.Author,
			Rating:    row.Rating,
			Date:      row.Date,
			Text:      row.Text,
			Pros:      row.Pros,
			Cons:      row.Cons,
			Helpful:   row.Helpful,
		})
	}
	return out, nil
}

// Save stores the non-personal part of a finalized application.
func (s *SQLiteStore) Save(ctx context.Context, draft domain.ApplicationDraft, receipt domain.SubmissionReceipt) error {
	row := applicationRow{
		ID:          receipt.ID,
		DraftID:     draft.ID,
		ProductType: string(draft.ProductType),
		Amount:      draft.Amount,
		Income:      draft.Income,
		Employment:  string(draft.Employment),
		SubmittedAt: receipt.SubmittedAt,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("insert application %s: %w", receipt.ID, err)
	}
	return nil
}

func (s *SQLiteStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&applicationRow{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count applications: %w", err)
	}
	return n, nil
}

func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func toProductRow(pos int, p domain.Product) productRow {
	return productRow{
		ID:              p.ID,
		Position:        pos,
		Title:           p.Title,
		Category:        string(p.Category),
		Rate:            p.Rate,
		Bank:            p.Bank,
		Description:     p.Description,
		Features:        p.Features,
		Badge:           p.Badge,
		FullDescription: p.FullDescription,
		Requirements:    p.Requirements,
		Documents:       p.Documents,
		Benefits:        p.Benefits,
		GraceDays:       p.GraceDays,
		Cashback:        p.Cashback,
		Limit:           p.Limit,
		Period:          p.Period,
		MinAmount:       p.MinAmount,
		MaxAmount:       p.MaxAmount,
	}
}

func toReviewRow(pos int, r domain.Review) reviewRow {
	return reviewRow{
		ID:        r.ID,
		Position:  pos,
		ProductID: r.ProductID,
		Author:    r.Author,
		Rating:    r.Rating,
		Date:      r.Date,
		Text:      r.Text,
		Pros:      r.Pros,
		Cons:      r.Cons,
		Helpful:   r.Helpful,
	}
}

func (row productRow) toDomain() domain.Product {
	return domain.Product{
		ID:              row.ID,
		Title:           row.Title,
		Category:        domain.Category(row.Category),
		Rate:            row.Rate,
		Bank:            row.Bank,
		Description:     row.Description,
		Features:        row.Features,
		Badge:           row.Badge,
		FullDescription: row.FullDescription,
		Requirements:    row.Requirements,
		Documents:       row.Documents,
		Benefits:        row.Benefits,
		GraceDays:       row.GraceDays,
		Cashback:        row.Cashback,
		Limit:           row.Limit,
		Period:          row.Period,
		MinAmount:       row.MinAmount,
		MaxAmount:       row.MaxAmount,
	}
}
