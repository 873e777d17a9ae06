package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gosimple/slug"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-events-api/internal/dto"
	"github.com/noah-isme/campus-events-api/internal/models"
	"github.com/noah-isme/campus-events-api/internal/repository"
	"github.com/noah-isme/campus-events-api/internal/service"
	"github.com/noah-isme/campus-events-api/pkg/config"
	"github.com/noah-isme/campus-events-api/pkg/database"
	"github.com/noah-isme/campus-events-api/pkg/logger"
)

type collegeSeed struct {
	name     string
	domain   string
	manager  string
	students []string
}

var colleges = []collegeSeed{
	{name: "School of Engineering", domain: "eng", manager: "Rina Hartono", students: []string{"Ana Putri", "Bima Saputra"}},
	{name: "School of Business", domain: "biz", manager: "Dimas Pratama", students: []string{"Citra Lestari", "Dewi Anggraini"}},
	{name: "School of Arts", domain: "arts", manager: "Sari Wulandari", students: []string{"Eka Nugroho", "Fajar Ramadhan"}},
	{name: "School of Medicine", domain: "med", manager: "Yusuf Hidayat", students: []string{"Gita Permata", "Hadi Kurniawan"}},
}

type eventSeed struct {
	title       string
	description string
	kind        string
	inDays      int
	capacity    int
}

var eventsPerCollege = []eventSeed{
	{title: "Tech Talk", description: "Industry speakers on current practice.", kind: "seminar", inDays: 7, capacity: 100},
	{title: "Hands-on Workshop", description: "Small-group practical session.", kind: "workshop", inDays: 14, capacity: 25},
	{title: "Annual Fest", description: "Open campus festival.", kind: "fest", inDays: 30, capacity: 500},
}

func main() {
	tokensOnly := pflag.Bool("tokens-only", false, "print development tokens without touching the database")
	tokenTTL := pflag.Duration("token-ttl", 24*time.Hour, "lifetime of the printed development tokens")
	pflag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	ids := seededIDs{}
	if !*tokensOnly {
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			logr.Fatal("connect postgres", zap.Error(err))
		}
		defer db.Close() //nolint:errcheck

		ids, err = seed(ctx, db, logr)
		if err != nil {
			logr.Fatal("seed failed", zap.Error(err))
		}
	}

	auth := service.NewAuthService(service.AuthConfig{Secret: cfg.JWT.Secret, Issuer: cfg.JWT.Issuer, TTL: *tokenTTL})
	if err := printTokens(auth, ids); err != nil {
		logr.Fatal("issue tokens", zap.Error(err))
	}
}

type seededIDs struct {
	managerID string
	studentID string
}

func seed(ctx context.Context, db *sqlx.DB, logr *zap.Logger) (seededIDs, error) {
	validate := validator.New()
	collegeRepo := repository.NewCollegeRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	managerRepo := repository.NewEventManagerRepository(db)
	registrations := repository.NewRegistrationRepository(db)

	catalog := service.NewCatalogService(collegeRepo, studentRepo, studentRepo, managerRepo, validate, logr)
	events := service.NewEventService(repository.NewEventRepository(db), collegeRepo, managerRepo, registrations, db, validate, logr)
	lifecycle := service.NewLifecycleService(repository.NewEventRepository(db), studentRepo, registrations,
		repository.NewAttendanceRepository(db), repository.NewFeedbackRepository(db), db, nil, 15*time.Minute, validate, logr)

	var ids seededIDs
	for _, c := range colleges {
		college, err := catalog.CreateCollege(ctx, dto.CreateCollegeRequest{Name: c.name})
		if err != nil {
			return ids, fmt.Errorf("college %q: %w", c.name, err)
		}

		manager, err := catalog.CreateManager(ctx, dto.CreateEventManagerRequest{
			Name:      c.manager,
			Email:     emailFor(c.manager, c.domain),
			CollegeID: college.ID,
		})
		if err != nil {
			return ids, fmt.Errorf("manager %q: %w", c.manager, err)
		}
		if ids.managerID == "" {
			ids.managerID = manager.ID
		}

		studentIDs := make([]string, 0, len(c.students))
		for _, name := range c.students {
			student, err := catalog.CreateStudent(ctx, dto.CreateStudentRequest{
				Name:      name,
				Email:     emailFor(name, c.domain),
				CollegeID: college.ID,
			})
			if err != nil {
				return ids, fmt.Errorf("student %q: %w", name, err)
			}
			studentIDs = append(studentIDs, student.ID)
		}
		if ids.studentID == "" && len(studentIDs) > 0 {
			ids.studentID = studentIDs[0]
		}

		for i, e := range eventsPerCollege {
			event, err := events.Create(ctx, dto.CreateEventRequest{
				Title:       fmt.Sprintf("%s: %s", c.name, e.title),
				Description: e.description,
				Type:        e.kind,
				Date:        time.Now().UTC().AddDate(0, 0, e.inDays).Truncate(time.Hour),
				Capacity:    e.capacity,
				CollegeID:   college.ID,
				ManagerID:   manager.ID,
			})
			if err != nil {
				return ids, fmt.Errorf("event %q: %w", e.title, err)
			}
			for _, studentID := range studentIDs[:min(i+1, len(studentIDs))] {
				if _, err := lifecycle.Register(ctx, dto.RegisterRequest{StudentID: studentID, EventID: event.ID}); err != nil {
					return ids, fmt.Errorf("register %s for %s: %w", studentID, event.ID, err)
				}
			}
		}
		logr.Info("seeded college", zap.String("college", college.Name), zap.Int("students", len(studentIDs)))
	}
	return ids, nil
}

func printTokens(auth *service.AuthService, ids seededIDs) error {
	subjects := []struct {
		id    string
		role  models.UserRole
		email string
	}{
		{id: "admin", role: models.RoleAdmin, email: "admin@campus.local"},
		{id: orDefault(ids.managerID, "manager"), role: models.RoleManager, email: "manager@campus.local"},
		{id: orDefault(ids.studentID, "student"), role: models.RoleStudent, email: "student@campus.local"},
	}
	for _, s := range subjects {
		token, expiresAt, err := auth.IssueToken(s.id, s.role, s.email)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "%-8s %s (expires %s)\n", s.role, token, expiresAt.Format(time.RFC3339))
	}
	return nil
}

func emailFor(name, domain string) string {
	return fmt.Sprintf("%s@%s.campus.edu", strings.ReplaceAll(slug.Make(name), "-", "."), domain)
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
