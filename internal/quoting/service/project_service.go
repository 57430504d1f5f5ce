package service

import (
	"fmt"

	"github.com/sympatecoinc/door-quoter/internal/quoting/entity"
	"github.com/sympatecoinc/door-quoter/internal/quoting/repository"
)

type ProjectService struct {
	projRepo *repository.ProjectRepository
}

func NewProjectService(projRepo *repository.ProjectRepository) *ProjectService {
	return &ProjectService{projRepo: projRepo}
}

func (s *ProjectService) GetByID(id string) (*entity.Project, error) {
	return s.projRepo.GetByID(id)
}

// ReorderPanels rewrites an opening's panel display order. All rows move in
// one transaction; a failure leaves the previous ordering intact.
func (s *ProjectService) ReorderPanels(openingID string, orderedPanelIDs []string) error {
	if len(orderedPanelIDs) == 0 {
		return fmt.Errorf("no panel ids supplied")
	}
	seen := make(map[string]bool, len(orderedPanelIDs))
	for _, id := range orderedPanelIDs {
		if seen[id] {
			return fmt.Errorf("duplicate panel id %s", id)
		}
		seen[id] = true
	}
	return s.projRepo.ReorderPanels(openingID, orderedPanelIDs)
}
