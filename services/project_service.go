package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"precastcatalog/models"
	"precastcatalog/repository"
)

// ProjectDetail is a project together with the cart items assigned to it.
type ProjectDetail struct {
	models.Project
	Items []models.CartItem `json:"items"`
}

type ProjectService struct {
	repos *Repositories
	log   *zap.Logger
	clock clock
}

func NewProjectService(repos *Repositories, log *zap.Logger) *ProjectService {
	return &ProjectService{repos: repos, log: log}
}

func projectsKey(u *models.User) string {
	return repository.ProjectsKey(u.IDNumber, u.Email)
}

func (s *ProjectService) List(ctx context.Context, u *models.User) ([]models.Project, error) {
	projects, err := s.repos.Projects.List(ctx, projectsKey(u))
	if err != nil {
		return nil, fmt.Errorf("loading projects: %w", err)
	}
	return projects, nil
}

func (s *ProjectService) Create(ctx context.Context, u *models.User, req models.ProjectRequest) (*models.Project, error) {
	p, err := s.fromRequest(req)
	if err != nil {
		return nil, err
	}
	now := s.clock.now()
	p.CreatedAt = now
	p.UpdatedAt = now

	err = s.repos.Projects.Update(ctx, projectsKey(u), func(projects []models.Project) ([]models.Project, error) {
		at := now
		p.ID = repository.GenerateProjectID(at)
		for repository.FindProject(projects, p.ID) != nil {
			at = at.Add(time.Millisecond)
			p.ID = repository.GenerateProjectID(at)
		}
		return append(projects, p), nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("[Projects] project created", zap.String("id", p.ID), zap.String("owner", u.Email))
	return &p, nil
}

// Get returns the project with the caller's cart items that are assigned to it.
func (s *ProjectService) Get(ctx context.Context, u *models.User, id string) (*ProjectDetail, error) {
	projects, err := s.List(ctx, u)
	if err != nil {
		return nil, err
	}
	p := repository.FindProject(projects, id)
	if p == nil {
		return nil, notFound("Project not found.")
	}
	cart, err := s.repos.Carts.Get(ctx, u.Email)
	if err != nil {
		return nil, fmt.Errorf("loading cart: %w", err)
	}
	detail := &ProjectDetail{Project: *p, Items: []models.CartItem{}}
	for _, it := range cart {
		if it.Group() == id {
			detail.Items = append(detail.Items, it)
		}
	}
	return detail, nil
}

func (s *ProjectService) Update(ctx context.Context, u *models.User, id string, req models.ProjectRequest) (*models.Project, error) {
	next, err := s.fromRequest(req)
	if err != nil {
		return nil, err
	}
	var updated models.Project
	err = s.repos.Projects.Update(ctx, projectsKey(u), func(projects []models.Project) ([]models.Project, error) {
		p := repository.FindProject(projects, id)
		if p == nil {
			return nil, notFound("Project not found.")
		}
		p.Name = next.Name
		p.Company = next.Company
		p.Date = next.Date
		p.Location = next.Location
		p.Image = next.Image
		p.UpdatedAt = s.clock.now()
		updated = *p
		return projects, nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes a project. Cart items that were assigned to it fall back to the unassigned group.
func (s *ProjectService) Delete(ctx context.Context, u *models.User, id string) error {
	err := s.repos.Projects.Update(ctx, projectsKey(u), func(projects []models.Project) ([]models.Project, error) {
		out := projects[:0]
		found := false
		for _, p := range projects {
			if p.ID == id {
				found = true
				continue
			}
			out = append(out, p)
		}
		if !found {
			return nil, notFound("Project not found.")
		}
		return out, nil
	})
	if err != nil {
		return err
	}

	err = s.repos.Carts.Update(ctx, u.Email, func(items []models.CartItem) ([]models.CartItem, error) {
		for i := range items {
			if items[i].ProjectID == id {
				items[i].ProjectID = models.UnassignedProjectID
			}
		}
		return items, nil
	})
	if err != nil {
		return fmt.Errorf("releasing cart items: %w", err)
	}
	s.log.Info("[Projects] project deleted", zap.String("id", id), zap.String("owner", u.Email))
	return nil
}

func (s *ProjectService) fromRequest(req models.ProjectRequest) (models.Project, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return models.Project{}, invalid("Please enter a project name.")
	}
	location, err := optionalCity(req.Location)
	if err != nil {
		return models.Project{}, err
	}
	return models.Project{
		Name:     SanitizeText(name),
		Company:  SanitizeText(req.Company),
		Date:     strings.TrimSpace(req.Date),
		Location: location,
		Image:    strings.TrimSpace(req.Image),
	}, nil
}
