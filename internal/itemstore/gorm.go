package itemstore

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LocalItem struct {
	ID        uuid.UUID `gorm:"primaryKey"                                  json:"-"`
	Owner     string    `gorm:"uniqueIndex:idx_owner_kind_product;not null" json:"owner"`
	Kind      string    `gorm:"uniqueIndex:idx_owner_kind_product;not null" json:"kind"`
	ProductID string    `gorm:"uniqueIndex:idx_owner_kind_product;not null" json:"product_id"`
	Position  int       `gorm:"not null"                                    json:"position"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	Image     string    `json:"image"`
	AddedAt   time.Time `json:"added_at"`
}

func (l *LocalItem) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

func (LocalItem) TableName() string {
	return "local_items"
}

type GormPersister struct {
	DB *gorm.DB
}

func (p *GormPersister) Migrate(ctx context.Context) error {
	return p.DB.WithContext(ctx).AutoMigrate(&LocalItem{})
}

func (p *GormPersister) Load(ctx context.Context, owner string, kind Kind) ([]Item, error) {
	var rows []LocalItem
	if err := p.DB.WithContext(ctx).
		Where("owner = ? AND kind = ?", owner, string(kind)).
		Order("position ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(rows))
	for _, r := range rows {
		items = append(items, Item{
			ProductID: r.ProductID,
			Name:      r.Name,
			Price:     r.Price,
			Image:     r.Image,
			AddedAt:   r.AddedAt,
		})
	}
	return items, nil
}

// Save replaces the whole list in one transaction.
func (p *GormPersister) Save(ctx context.Context, owner string, kind Kind, items []Item) error {
	return p.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("owner = ? AND kind = ?", owner, string(kind)).Delete(&LocalItem{}).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}

		rows := make([]LocalItem, 0, len(items))
		for i, it := range items {
			rows = append(rows, LocalItem{
				Owner:     owner,
				Kind:      string(kind),
				ProductID: it.ProductID,
				Position:  i,
				Name:      it.Name,
				Price:     it.Price,
				Image:     it.Image,
				AddedAt:   it.AddedAt,
			})
		}
		return tx.Create(&rows).Error
	})
}

func (p *GormPersister) Delete(ctx context.Context, owner string) error {
	return p.DB.WithContext(ctx).Where("owner = ?", owner).Delete(&LocalItem{}).Error
}
