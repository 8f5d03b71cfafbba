package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/example/wdh-os/internal/domain"
)

// SeedTarget is the slice of storage the bootstrap dataset writes to.
type SeedTarget interface {
	UserRepository
	ClientRepository
	SpaceRepository
	ProjectRepository
	EmployeeRepository
	TaskRepository
}

// SeedConfig supplies the generators the seed needs; all fields are required.
type SeedConfig struct {
	ID           func() string
	Now          func() time.Time
	HashPassword func(password string) (string, error)
}

// SeedDefaults loads the bootstrap dataset: one operator per role plus a
// small set of demo entities. It is a no-op when users already exist, so
// repeated startups do not duplicate rows.
func SeedDefaults(ctx context.Context, target SeedTarget, cfg SeedConfig) error {
	if target == nil {
		return fmt.Errorf("seed target is nil")
	}
	if cfg.ID == nil || cfg.Now == nil || cfg.HashPassword == nil {
		return fmt.Errorf("seed config is incomplete")
	}

	existing, err := target.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("check existing users: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	now := cfg.Now()

	operators := []struct {
		name  string
		email string
		role  domain.Role
	}{
		{"Anna Weber", "anna.weber@wdh.example", domain.RoleCEO},
		{"Markus Dreyer", "markus.dreyer@wdh.example", domain.RoleCOO},
		{"Lena Hoffmann", "lena.hoffmann@wdh.example", domain.RoleCTO},
		{"Jonas Pohl", "jonas.pohl@wdh.example", domain.RoleMediaManager},
		{"Sofia Krause", "sofia.krause@wdh.example", domain.RoleAdmin},
	}
	for _, op := range operators {
		hash, err := cfg.HashPassword("wdh-" + string(op.role))
		if err != nil {
			return fmt.Errorf("hash seed password for %s: %w", op.email, err)
		}
		user := domain.User{
			ID:           cfg.ID(),
			Name:         op.name,
			Email:        op.email,
			Role:         op.role,
			PasswordHash: hash,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := target.CreateUser(ctx, user); err != nil {
			return fmt.Errorf("seed user %s: %w", op.email, err)
		}
	}

	clients := []domain.Client{
		{Name: "Petra Lindt", Company: "Lindt Logistik GmbH", Email: "petra@lindt-logistik.example", Phone: "+49 30 555 0101", Type: domain.ClientEnterprise, Status: domain.ClientActive, Revenue: 125000, LastContact: "2 days ago"},
		{Name: "Timo Berger", Company: "Berger Media UG", Email: "timo@bergermedia.example", Phone: "+49 30 555 0102", Type: domain.ClientStartup, Status: domain.ClientProspect, Revenue: 0, LastContact: "1 week ago"},
		{Name: "Clara Voss", Company: "", Email: "clara.voss@mail.example", Phone: "+49 170 555 0103", Type: domain.ClientIndividual, Status: domain.ClientActive, Revenue: 4800, LastContact: "Today"},
	}
	clientIDs := make([]string, 0, len(clients))
	for _, c := range clients {
		c.ID = cfg.ID()
		c.CreatedAt = now
		c.UpdatedAt = now
		if err := target.CreateClient(ctx, c); err != nil {
			return fmt.Errorf("seed client %s: %w", c.Name, err)
		}
		clientIDs = append(clientIDs, c.ID)
	}

	spaces := []domain.Space{
		{Name: "Studio A", Type: domain.SpaceStudio, Capacity: 6, PricePerHour: 85, Status: domain.SpaceAvailable},
		{Name: "Conference North", Type: domain.SpaceConference, Capacity: 14, PricePerHour: 45, Status: domain.SpaceAvailable},
		{Name: "Coworking Floor 2", Type: domain.SpaceCoworking, Capacity: 24, PricePerHour: 8, Status: domain.SpaceAvailable},
		{Name: "Office 204", Type: domain.SpaceOffice, Capacity: 4, PricePerHour: 25, Status: domain.SpaceMaintenance},
	}
	for _, sp := range spaces {
		sp.ID = cfg.ID()
		sp.CreatedAt = now
		sp.UpdatedAt = now
		if err := target.CreateSpace(ctx, sp); err != nil {
			return fmt.Errorf("seed space %s: %w", sp.Name, err)
		}
	}

	project := domain.MediaProject{
		ID:        cfg.ID(),
		Title:     "Lindt Logistik image film",
		Client:    "Lindt Logistik GmbH",
		ClientID:  clientIDs[0],
		Type:      domain.ProjectVideo,
		Status:    domain.ProjectBriefing,
		Deadline:  now.AddDate(0, 2, 0).Format("2006-01-02"),
		Budget:    18000,
		Progress:  10,
		Assignee:  "Jonas Pohl",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := target.CreateProject(ctx, project); err != nil {
		return fmt.Errorf("seed project: %w", err)
	}

	employee := domain.Employee{
		ID:          cfg.ID(),
		Name:        "Jonas Pohl",
		Email:       "jonas.pohl@wdh.example",
		Phone:       "+49 30 555 0201",
		Position:    "Media Producer",
		Department:  "Media",
		Salary:      52000,
		JoinDate:    "2023-04-01",
		Status:      domain.EmployeeActive,
		Performance: domain.PerformanceGood,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := target.CreateEmployee(ctx, employee); err != nil {
		return fmt.Errorf("seed employee: %w", err)
	}

	task := domain.Task{
		ID:           cfg.ID(),
		Title:        "Prepare briefing deck",
		Description:  "Collect requirements for the Lindt Logistik image film.",
		AssigneeID:   employee.ID,
		AssigneeName: employee.Name,
		DueDate:      now.AddDate(0, 0, 7).Format("2006-01-02"),
		Priority:     domain.PriorityHigh,
		Status:       domain.TaskPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := target.CreateTask(ctx, task); err != nil {
		return fmt.Errorf("seed task: %w", err)
	}

	return nil
}
