package repository

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"precastcatalog/models"
	"precastcatalog/storage"
)

// ProjectRepository persists one projects blob per user, see ProjectsKey.
type ProjectRepository interface {
	List(ctx context.Context, ownerKey string) ([]models.Project, error)
	Update(ctx context.Context, ownerKey string, fn func(projects []models.Project) ([]models.Project, error)) error
	Move(ctx context.Context, fromKey, toKey string) error
}

type projectRepository struct {
	mu   sync.Mutex
	blob jsonBlob[[]models.Project]
}

func NewProjectRepository(kv storage.KV, timeout time.Duration, log *zap.Logger) ProjectRepository {
	return &projectRepository{blob: jsonBlob[[]models.Project]{kv: kv, log: log, timeout: timeout}}
}

func (r *projectRepository) List(ctx context.Context, ownerKey string) ([]models.Project, error) {
	projects, err := r.blob.read(ctx, ownerKey)
	if err != nil {
		return nil, err
	}
	if projects == nil {
		projects = []models.Project{}
	}
	return projects, nil
}

func (r *projectRepository) Update(ctx context.Context, ownerKey string, fn func(projects []models.Project) ([]models.Project, error)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	projects, err := r.List(ctx, ownerKey)
	if err != nil {
		return err
	}
	projects, err = fn(projects)
	if err != nil {
		return err
	}
	if projects == nil {
		projects = []models.Project{}
	}
	return r.blob.write(ctx, ownerKey, projects)
}

func (r *projectRepository) Move(ctx context.Context, fromKey, toKey string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.blob.move(ctx, fromKey, toKey)
}

// FindProject returns the project with id, or nil.
func FindProject(projects []models.Project, id string) *models.Project {
	for i := range projects {
		if projects[i].ID == id {
			return &projects[i]
		}
	}
	return nil
}
