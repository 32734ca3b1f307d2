package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/attendease/attendease-api/internal/models"
	"github.com/attendease/attendease-api/internal/repository"
	"github.com/attendease/attendease-api/pkg/config"
	"github.com/attendease/attendease-api/pkg/database"
	"github.com/attendease/attendease-api/pkg/logger"
)

var (
	teacherFirst = []string{"Alice", "Bob", "Carol", "David", "Eva"}
	teacherLast  = []string{"Smith", "Johnson", "Williams", "Brown", "Jones"}
	studentFirst = []string{"Liam", "Emma", "Noah", "Olivia", "William", "Ava", "James", "Isabella", "Logan", "Sophia"}
	studentLast  = []string{"Miller", "Davis", "Garcia", "Rodriguez", "Wilson", "Martinez", "Anderson", "Taylor", "Thomas", "Hernandez"}
	courseCodes  = []string{"CSC", "FIN", "MAT", "PHY", "HIS"}
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	users := repository.NewUserRepository(db)
	enrollments := repository.NewEnrollmentRepository(db)

	ctx := context.Background()
	today := time.Now().UTC().Truncate(24 * time.Hour)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	adminLevel := 1
	office := "HQ Office"
	responsibilities := "Full system administration"
	if err := users.CreateWithProfile(ctx, repository.CreateUserParams{
		User: &models.User{
			Username:     "00001",
			PasswordHash: mustHash("adminpass"),
			Name:         "Site Administrator",
			Role:         models.RoleAdmin,
		},
		Admin: &models.AdminProfile{
			AdminLevel:       &adminLevel,
			OfficeLocation:   &office,
			Responsibilities: &responsibilities,
		},
	}); err != nil {
		logr.Fatal("seed admin", zap.Error(err))
	}

	teacherIDs := make([]int64, 0, len(teacherFirst))
	for i := range teacherFirst {
		department := fmt.Sprintf("Department %d", i+1)
		rank := "Professor"
		params := repository.CreateUserParams{
			User: &models.User{
				Username:     fmt.Sprintf("%05d", 10001+i),
				PasswordHash: mustHash("password"),
				Name:         fmt.Sprintf("%s %s", teacherFirst[i], teacherLast[i]),
				Role:         models.RoleTeacher,
			},
			Teacher: &models.TeacherProfile{
				HireDate:   time.Date(2020, time.January, i+1, 0, 0, 0, 0, time.UTC),
				Department: &department,
				Rank:       &rank,
			},
		}
		if err := users.CreateWithProfile(ctx, params); err != nil {
			logr.Fatal("seed teacher", zap.Error(err))
		}
		teacherIDs = append(teacherIDs, params.User.ID)
	}

	classIDs := make([]int64, 0, 20)
	for idx := 0; idx < 20; idx++ {
		code := courseCodes[idx%len(courseCodes)]
		name := fmt.Sprintf("%s %d", code, 1001+idx)
		description := fmt.Sprintf("Description for %s", name)
		schedule := "Mon & Wed 10:00-11:30"

		var classID int64
		const q = `INSERT INTO classes (name, teacher_id, description, schedule) VALUES ($1, $2, $3, $4) RETURNING id`
		if err := db.QueryRowxContext(ctx, q, name, teacherIDs[idx%len(teacherIDs)], description, schedule).Scan(&classID); err != nil {
			logr.Fatal("seed class", zap.Error(err))
		}
		classIDs = append(classIDs, classID)
	}

	gradYear := 2027
	major := "General Studies"
	status := models.EnrollmentStatusActive
	for j := 0; j < 50; j++ {
		params := repository.CreateUserParams{
			User: &models.User{
				Username:     fmt.Sprintf("%05d", 11001+j),
				PasswordHash: mustHash("password"),
				Name:         fmt.Sprintf("%s %s", studentFirst[rng.Intn(len(studentFirst))], studentLast[rng.Intn(len(studentLast))]),
				Role:         models.RoleStudent,
			},
			Student: &models.StudentProfile{
				EnrollmentDate: today,
				GraduationYear: &gradYear,
				MajorField:     &major,
			},
		}
		if err := users.CreateWithProfile(ctx, params); err != nil {
			logr.Fatal("seed student", zap.Error(err))
		}

		for _, classID := range pickDistinct(rng, classIDs, 5) {
			enrollment := models.Enrollment{
				StudentID:  params.User.ID,
				ClassID:    classID,
				Status:     &status,
				EnrollDate: &today,
			}
			if err := enrollments.Create(ctx, &enrollment); err != nil {
				logr.Fatal("seed enrollment", zap.Error(err))
			}
		}
	}

	logr.Info("seed complete",
		zap.Int("teachers", len(teacherIDs)),
		zap.Int("classes", len(classIDs)),
		zap.Int("students", 50))
}

func mustHash(password string) string {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}
	return string(hash)
}

func pickDistinct(rng *rand.Rand, ids []int64, n int) []int64 {
	shuffled := make([]int64, len(ids))
	copy(shuffled, ids)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	if n > len(shuffled) {
		n = len(shuffled)
	}
	return shuffled[:n]
}
