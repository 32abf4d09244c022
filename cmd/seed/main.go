package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"pinkblueberry/internal/config"
	"pinkblueberry/internal/database"
	"pinkblueberry/internal/domain"
	"pinkblueberry/internal/pkg/logger"
	"pinkblueberry/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel, cfg.LogPretty)

	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal().Err(err).Msg("db connection failed")
	}

	log.Info().Msg("running migrations")
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrations failed")
	}

	// wipe old demo data, children first
	log.Info().Msg("cleaning old data")
	db.Exec("DELETE FROM booking_services")
	db.Exec("DELETE FROM bookings")
	db.Exec("DELETE FROM staff_shifts")
	db.Exec("DELETE FROM staff")
	db.Exec("DELETE FROM services")
	db.Exec("DELETE FROM customers")
	db.Exec("DELETE FROM branches")

	ctx := context.Background()
	branches := repository.NewBranchRepository(db)
	services := repository.NewServiceRepository(db)
	staff := repository.NewStaffRepository(db)
	customers := repository.NewCustomerRepository(db)

	log.Info().Msg("creating branch")
	hours := domain.OperatingHours{}
	for _, day := range []string{"monday", "tuesday", "wednesday", "thursday", "friday"} {
		hours[day] = domain.DayHours{Open: "09:00", Close: "19:00"}
	}
	hours["saturday"] = domain.DayHours{Open: "10:00", Close: "16:00"}

	now := time.Now()
	branch := &domain.Branch{
		ID:       uuid.New(),
		Name:     "Pink Blueberry Downtown",
		Address:  "12 Rose Street",
		Phone:    "+1 555 010 2030",
		Email:    "downtown@pinkblueberry.test",
		Currency: "USD",
		Active:   true,
		Settings: domain.BranchSettings{
			MinBookingNotice: 2 * time.Hour,
			SlotGranularity:  30 * time.Minute,
			Timezone:         "America/New_York",
			Hours:            hours,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := branches.Create(ctx, branch); err != nil {
		log.Fatal().Err(err).Msg("branch create failed")
	}

	log.Info().Msg("creating services")
	deposit := domain.MustMoney("60.00", "USD")
	catalog := []*domain.Service{
		{ID: uuid.New(), BranchID: branch.ID, Name: "Classic Haircut", Category: "haircut", DurationMinutes: 45, Price: domain.MustMoney("55.00", "USD"), Active: true},
		{ID: uuid.New(), BranchID: branch.ID, Name: "Beard Trim", Category: "haircut", DurationMinutes: 20, Price: domain.MustMoney("25.00", "USD"), Active: true},
		{ID: uuid.New(), BranchID: branch.ID, Name: "Full Color", Category: "color", DurationMinutes: 120, BufferMinutes: 15, Price: domain.MustMoney("180.00", "USD"), Active: true},
		{ID: uuid.New(), BranchID: branch.ID, Name: "Balayage", Category: "color", DurationMinutes: 150, BufferMinutes: 15, Price: domain.MustMoney("260.00", "USD"), RequiresDeposit: true, DepositAmount: &deposit, Active: true},
		{ID: uuid.New(), BranchID: branch.ID, Name: "Deep Conditioning", Category: "treatment", DurationMinutes: 30, Price: domain.MustMoney("45.00", "USD"), Active: true},
	}
	for _, svc := range catalog {
		if err := services.Create(ctx, svc); err != nil {
			log.Fatal().Err(err).Str("service", svc.Name).Msg("service create failed")
		}
	}

	log.Info().Msg("creating staff")
	team := []*domain.Staff{
		{ID: uuid.New(), BranchID: branch.ID, Name: "Maya Ortiz", Email: "maya@pinkblueberry.test", Role: domain.RoleManager, Active: true, CreatedAt: now, UpdatedAt: now},
		{ID: uuid.New(), BranchID: branch.ID, Name: "Jonah Reed", Email: "jonah@pinkblueberry.test", Role: domain.RoleStylist, Specialties: []string{"haircut"}, Active: true, CreatedAt: now, UpdatedAt: now},
		{ID: uuid.New(), BranchID: branch.ID, Name: "Lena Park", Email: "lena@pinkblueberry.test", Role: domain.RoleStylist, Specialties: []string{"color", "treatment"}, Active: true, CreatedAt: now, UpdatedAt: now},
	}
	for _, member := range team {
		if err := staff.Create(ctx, member); err != nil {
			log.Fatal().Err(err).Str("staff", member.Name).Msg("staff create failed")
		}
		// weekday shifts matching branch hours
		for day := time.Monday; day <= time.Friday; day++ {
			shift := domain.StaffShift{StaffID: member.ID, DayOfWeek: day, StartTime: "09:00", EndTime: "19:00"}
			if err := staff.CreateShift(ctx, shift); err != nil {
				log.Fatal().Err(err).Msg("shift create failed")
			}
		}
	}

	log.Info().Msg("creating customers")
	adminHash, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	admin := &domain.Customer{
		ID:           uuid.New(),
		Name:         "Front Desk",
		Email:        "admin@pinkblueberry.test",
		PasswordHash: string(adminHash),
		Tags:         []string{"admin"},
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := customers.Create(ctx, admin); err != nil {
		log.Fatal().Err(err).Msg("admin create failed")
	}
	log.Info().Msg("admin created: admin@pinkblueberry.test / admin123")

	for i := 1; i <= 3; i++ {
		hash, _ := bcrypt.GenerateFromPassword([]byte("client123"), bcrypt.DefaultCost)
		customer := &domain.Customer{
			ID:           uuid.New(),
			Name:         fmt.Sprintf("Demo Customer %d", i),
			Email:        fmt.Sprintf("customer%d@pinkblueberry.test", i),
			Phone:        fmt.Sprintf("+1 555 010 40%02d", i),
			PasswordHash: string(hash),
			VIP:          i == 1,
			Active:       true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := customers.Create(ctx, customer); err != nil {
			log.Fatal().Err(err).Msg("customer create failed")
		}
	}

	log.Info().Str("branch", branch.Name).Int("services", len(catalog)).Int("staff", len(team)).Msg("seed completed")
}
