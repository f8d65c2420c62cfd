package service

import (
	"context"

	"github.com/aidar/crm-notify/internal/domain"
	"github.com/aidar/crm-notify/internal/repository"
)

// TeamService handles business logic for teams
type TeamService struct {
	teamRepo repository.TeamRepository
	userRepo repository.UserRepository
}

// NewTeamService creates a new TeamService
func NewTeamService(teamRepo repository.TeamRepository, userRepo repository.UserRepository) *TeamService {
	return &TeamService{
		teamRepo: teamRepo,
		userRepo: userRepo,
	}
}

// AddTeam creates a new team and attaches the listed members
func (s *TeamService) AddTeam(ctx context.Context, team *domain.Team) (*domain.Team, error) {
	// Check if team already exists
	exists, err := s.teamRepo.Exists(ctx, team.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrTeamExists
	}

	// Create team
	teamID, err := s.teamRepo.Create(ctx, team)
	if err != nil {
		return nil, err
	}

	// Attach members; unknown users are skipped rather than failing the team
	for _, member := range team.Members {
		if _, err := s.userRepo.GetByID(ctx, member.UserID); err != nil {
			continue
		}
		if err := s.teamRepo.AddMember(ctx, teamID, member.UserID); err != nil {
			return nil, err
		}
	}

	// Return the created team
	return s.teamRepo.GetByName(ctx, team.Name)
}

// GetTeam retrieves a team with all members
func (s *TeamService) GetTeam(ctx context.Context, name string) (*domain.Team, error) {
	return s.teamRepo.GetByName(ctx, name)
}
