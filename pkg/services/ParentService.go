package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mvicenzino/kidzart/pkg/models"
	"github.com/rfberaldo/sqlz"
)

type ParentServicer interface {
	Create(name, email, password string) (*models.Parent, error)
	GetAll() ([]models.Parent, error)
	GetByPassword(password string) (*models.Parent, error)
}

type ParentServiceConfig struct {
	DB *sqlz.DB
}

type ParentService struct {
	db *sqlz.DB
}

func NewParentService(config ParentServiceConfig) ParentService {
	return ParentService{
		db: config.DB,
	}
}

func (s ParentService) Create(name, email, password string) (*models.Parent, error) {
	var (
		err error
	)

	name = strings.TrimSpace(name)
	password = strings.TrimSpace(password)

	if name == "" || password == "" {
		return nil, ValidationErrors{"password": "A name and passcode are required"}
	}

	sql := `
INSERT INTO parents (
   created_at,
   updated_at,
   password,
   name,
   email
) VALUES (?, ?, ?, ?, ?)
`

	now := time.Now().UTC()
	params := []any{now, now, password, name, strings.TrimSpace(email)}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if _, err = s.db.Exec(ctx, sql, params...); err != nil {
		return nil, fmt.Errorf("error inserting parent '%s': %w", name, err)
	}

	return s.GetByPassword(password)
}

func (s ParentService) GetAll() ([]models.Parent, error) {
	var (
		err     error
		parents []models.Parent
	)

	sql := `
SELECT
   p.id
   , p.created_at
   , p.updated_at
   , p.deleted_at
   , p.password
   , p.name
   , p.email
FROM parents AS p
WHERE 1=1
   AND p.deleted_at IS NULL
ORDER BY p.name
`

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err = s.db.Query(ctx, &parents, sql); err != nil {
		return nil, fmt.Errorf("error querying for all parents: %w", err)
	}

	return parents, nil
}

func (s ParentService) GetByPassword(password string) (*models.Parent, error) {
	var (
		err error
	)

	result := &models.Parent{}

	sql := `
SELECT
   p.id
   , p.created_at
   , p.updated_at
   , p.deleted_at
   , p.password
   , p.name
   , p.email
FROM parents AS p
WHERE 1=1
   AND p.deleted_at IS NULL
   AND p.password=?
`

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err = s.db.QueryRow(ctx, result, sql, password); err != nil {
		if sqlz.IsNotFound(err) {
			return nil, models.ErrParentNotFound
		}

		return nil, fmt.Errorf("error querying for parent by password: %w", err)
	}

	return result, nil
}
