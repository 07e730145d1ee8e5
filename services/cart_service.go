package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"precastcatalog/configurator"
	"precastcatalog/models"
	"precastcatalog/repository"
)

// UnassignedProjectName labels the cart group of items without a project.
const UnassignedProjectName = "(Unassigned)"

type CartService struct {
	repos *Repositories
	cfg   *configurator.Configurator
	log   *zap.Logger
	clock clock
}

func NewCartService(repos *Repositories, cfg *configurator.Configurator, log *zap.Logger) *CartService {
	return &CartService{repos: repos, cfg: cfg, log: log}
}

// Snapshot freezes a configuration into a cart item. Summaries are sanitized before they are stored.
func Snapshot(res *configurator.Result, projectID string, now time.Time) models.CartItem {
	if strings.TrimSpace(projectID) == "" {
		projectID = models.UnassignedProjectID
	}
	dims := make(map[string]float64, len(res.Dims))
	for k, v := range res.Dims {
		dims[k] = v
	}
	return models.CartItem{
		ID:           repository.GenerateCartItemID(res.Type),
		Product:      res.Product,
		Type:         res.Type,
		Params:       res.Params,
		Dims:         dims,
		Derived:      res.Derived,
		KPIs:         append([]configurator.KPI(nil), res.KPIs...),
		SummaryHTML:  SanitizeHTML(res.SummaryHTML),
		SummaryHTML2: SanitizeHTML(res.SummaryHTML2),
		ProjectID:    projectID,
		AddedAt:      now,
	}
}

// List returns the cart grouped by project in order of first appearance, unassigned items last.
func (s *CartService) List(ctx context.Context, u *models.User) ([]models.CartGroup, error) {
	items, err := s.repos.Carts.Get(ctx, u.Email)
	if err != nil {
		return nil, fmt.Errorf("loading cart: %w", err)
	}
	projects, err := s.repos.Projects.List(ctx, projectsKey(u))
	if err != nil {
		return nil, fmt.Errorf("loading projects: %w", err)
	}

	var groups []models.CartGroup
	index := map[string]int{}
	var later *models.CartGroup
	for _, it := range items {
		gid := it.Group()
		if gid == models.UnassignedProjectID {
			if later == nil {
				later = &models.CartGroup{ProjectID: gid, ProjectName: UnassignedProjectName}
			}
			later.Items = append(later.Items, it)
			continue
		}
		i, ok := index[gid]
		if !ok {
			i = len(groups)
			index[gid] = i
			groups = append(groups, models.CartGroup{ProjectID: gid, ProjectName: projectName(projects, gid)})
		}
		groups[i].Items = append(groups[i].Items, it)
	}
	if later != nil {
		groups = append(groups, *later)
	}
	if groups == nil {
		groups = []models.CartGroup{}
	}
	return groups, nil
}

// Add configures a product and stores the snapshot in the caller's cart. Admins cannot order.
func (s *CartService) Add(ctx context.Context, u *models.User, req models.AddToCartRequest) (*models.CartItem, []string, error) {
	if u == nil {
		return nil, nil, newError(ErrUnauthenticated, "Please log in to add items.")
	}
	if IsAdmin(u) {
		return nil, nil, forbidden(MsgAdminCannotAdd)
	}

	projectID := strings.TrimSpace(req.ProjectID)
	if projectID != "" && projectID != models.UnassignedProjectID {
		if err := s.requireProject(ctx, u, projectID); err != nil {
			return nil, nil, err
		}
	}

	res, err := s.cfg.Configure(req.Type, req.Request)
	if err != nil {
		return nil, nil, err
	}
	item := Snapshot(res, projectID, s.clock.now())

	err = s.repos.Carts.Update(ctx, u.Email, func(items []models.CartItem) ([]models.CartItem, error) {
		return append(items, item), nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("saving cart: %w", err)
	}
	s.log.Info("[Cart] item added", zap.String("email", u.Email), zap.String("item", item.ID))
	return &item, res.Warnings, nil
}

func (s *CartService) Remove(ctx context.Context, u *models.User, itemID string) error {
	return s.repos.Carts.Update(ctx, u.Email, func(items []models.CartItem) ([]models.CartItem, error) {
		for i := range items {
			if items[i].ID == itemID {
				return append(items[:i], items[i+1:]...), nil
			}
		}
		return nil, notFound("Cart item not found.")
	})
}

// Reassign moves a cart item to another project, or to the unassigned group.
func (s *CartService) Reassign(ctx context.Context, u *models.User, itemID, projectID string) (*models.CartItem, error) {
	projectID = strings.TrimSpace(projectID)
	if projectID == "" {
		projectID = models.UnassignedProjectID
	}
	if projectID != models.UnassignedProjectID {
		if err := s.requireProject(ctx, u, projectID); err != nil {
			return nil, err
		}
	}

	var moved models.CartItem
	err := s.repos.Carts.Update(ctx, u.Email, func(items []models.CartItem) ([]models.CartItem, error) {
		for i := range items {
			if items[i].ID == itemID {
				items[i].ProjectID = projectID
				moved = items[i]
				return items, nil
			}
		}
		return nil, notFound("Cart item not found.")
	})
	if err != nil {
		return nil, err
	}
	return &moved, nil
}

// Clear empties the whole cart.
func (s *CartService) Clear(ctx context.Context, u *models.User) error {
	return s.repos.Carts.Update(ctx, u.Email, func([]models.CartItem) ([]models.CartItem, error) {
		return []models.CartItem{}, nil
	})
}

// ClearGroup removes the items of one project group and returns how many were removed.
func (s *CartService) ClearGroup(ctx context.Context, u *models.User, projectID string) (int, error) {
	return clearGroup(ctx, s.repos, u.Email, projectID)
}

func clearGroup(ctx context.Context, repos *Repositories, email, projectID string) (int, error) {
	if projectID == "" {
		projectID = models.UnassignedProjectID
	}
	removed := 0
	err := repos.Carts.Update(ctx, email, func(items []models.CartItem) ([]models.CartItem, error) {
		kept := items[:0]
		for _, it := range items {
			if it.Group() == projectID {
				removed++
				continue
			}
			kept = append(kept, it)
		}
		return kept, nil
	})
	return removed, err
}

func (s *CartService) requireProject(ctx context.Context, u *models.User, projectID string) error {
	projects, err := s.repos.Projects.List(ctx, projectsKey(u))
	if err != nil {
		return fmt.Errorf("loading projects: %w", err)
	}
	if repository.FindProject(projects, projectID) == nil {
		return notFound("Project not found.")
	}
	return nil
}

func projectName(projects []models.Project, id string) string {
	if id == models.UnassignedProjectID {
		return UnassignedProjectName
	}
	if p := repository.FindProject(projects, id); p != nil && p.Name != "" {
		return p.Name
	}
	return "(Project)"
}
