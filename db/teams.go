package db

import (
	"context"

	"github.com/parley-chat/parley-services/models"
)

// CreateTeam inserts a new team.
func (c *ChatDB) CreateTeam(ctx context.Context, team *models.Team) error {
	_, err := c.DB.ExecContext(ctx, `
		INSERT INTO teams (id, name, display_name, type, create_at)
		VALUES ($1, $2, $3, $4, $5)`,
		team.ID, team.Name, team.DisplayName, team.Type, team.CreateAt)
	return translate(err, "error inserting team")
}

// GetTeam retrieves a team by id.
func (c *ChatDB) GetTeam(ctx context.Context, id string) (*models.Team, error) {
	return c.getTeam(ctx, `SELECT id, name, display_name, type, create_at FROM teams WHERE id = $1`, id)
}

// GetTeamByName retrieves a team by its handle.
func (c *ChatDB) GetTeamByName(ctx context.Context, name string) (*models.Team, error) {
	return c.getTeam(ctx, `SELECT id, name, display_name, type, create_at FROM teams WHERE name = $1`, name)
}

func (c *ChatDB) getTeam(ctx context.Context, query string, arg string) (*models.Team, error) {
	var t models.Team
	err := c.DB.QueryRowContext(ctx, query, arg).Scan(&t.ID, &t.Name, &t.DisplayName, &t.Type, &t.CreateAt)
	if err != nil {
		return nil, translate(err, "error retrieving team")
	}
	return &t, nil
}

// SaveTeamMember inserts or reactivates a team membership.
func (c *ChatDB) SaveTeamMember(ctx context.Context, member *models.TeamMember) error {
	_, err := c.DB.ExecContext(ctx, `
		INSERT INTO team_members (team_id, user_id, roles, delete_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (team_id, user_id) DO UPDATE SET roles = EXCLUDED.roles, delete_at = EXCLUDED.delete_at`,
		member.TeamID, member.UserID, member.Roles, member.DeleteAt)
	return translate(err, "error saving team member")
}

// GetTeamMember retrieves a single team membership.
func (c *ChatDB) GetTeamMember(ctx context.Context, teamID, userID string) (*models.TeamMember, error) {
	var m models.TeamMember
	err := c.DB.QueryRowContext(ctx, `
		SELECT team_id, user_id, roles, delete_at FROM team_members
		WHERE team_id = $1 AND user_id = $2`, teamID, userID).
		Scan(&m.TeamID, &m.UserID, &m.Roles, &m.DeleteAt)
	if err != nil {
		return nil, translate(err, "error retrieving team member")
	}
	return &m, nil
}

// GetTeamsForUser lists the teams a user actively belongs to.
func (c *ChatDB) GetTeamsForUser(ctx context.Context, userID string) ([]*models.Team, error) {
	rows, err := c.DB.QueryContext(ctx, `
		SELECT t.id, t.name, t.display_name, t.type, t.create_at
		FROM teams t
		INNER JOIN team_members tm ON tm.team_id = t.id
		WHERE tm.user_id = $1 AND tm.delete_at = 0
		ORDER BY t.display_name`, userID)
	if err != nil {
		return nil, translate(err, "error retrieving teams")
	}
	defer rows.Close()

	var teams []*models.Team
	for rows.Next() {
		var t models.Team
		if err := rows.Scan(&t.ID, &t.Name, &t.DisplayName, &t.Type, &t.CreateAt); err != nil {
			return nil, translate(err, "error scanning team")
		}
		teams = append(teams, &t)
	}
	return teams, rows.Err()
}
