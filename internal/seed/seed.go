package seed

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	appModels "github.com/yigit/edupath/internal/app/models"
	"github.com/yigit/edupath/internal/app/models/dto"
	appRepos "github.com/yigit/edupath/internal/app/repositories"
	"github.com/yigit/edupath/internal/pkg/apperrors"
	"github.com/yigit/edupath/internal/pkg/auth"
)

// Admin is the back-office account created on first start
type Admin struct {
	Email    string
	Password string
}

type defaultUniversity struct {
	university appModels.University
	programs   []appModels.Program
}

var defaultCatalog = []defaultUniversity{
	{
		university: appModels.University{
			Name:    "Istanbul University",
			Country: "Turkey",
			City:    "Istanbul",
			Website: "https://www.istanbul.edu.tr",
		},
		programs: []appModels.Program{
			{Name: "Computer Engineering", DegreeLevel: appModels.DegreeBachelor, Language: "English", DurationYears: 4, TuitionFee: 4500, Currency: "USD"},
			{Name: "Medicine", DegreeLevel: appModels.DegreeBachelor, Language: "Turkish", DurationYears: 6, TuitionFee: 12000, Currency: "USD"},
			{Name: "Business Administration", DegreeLevel: appModels.DegreeMaster, Language: "English", DurationYears: 2, TuitionFee: 5000, Currency: "USD"},
		},
	},
	{
		university: appModels.University{
			Name:    "Ankara University",
			Country: "Turkey",
			City:    "Ankara",
			Website: "https://www.ankara.edu.tr",
		},
		programs: []appModels.Program{
			{Name: "Law", DegreeLevel: appModels.DegreeBachelor, Language: "Turkish", DurationYears: 4, TuitionFee: 3000, Currency: "USD"},
			{Name: "Turkish Language Preparatory", DegreeLevel: appModels.DegreeLanguage, Language: "Turkish", DurationYears: 1, TuitionFee: 1500, Currency: "USD"},
		},
	},
	{
		university: appModels.University{
			Name:    "University of Malaya",
			Country: "Malaysia",
			City:    "Kuala Lumpur",
			Website: "https://www.um.edu.my",
		},
		programs: []appModels.Program{
			{Name: "Data Science", DegreeLevel: appModels.DegreeMaster, Language: "English", DurationYears: 2, TuitionFee: 7000, Currency: "USD"},
			{Name: "Civil Engineering", DegreeLevel: appModels.DegreePhD, Language: "English", DurationYears: 3, TuitionFee: 6500, Currency: "USD"},
		},
	},
}

// CreateDefaultData creates the admin account and a starter catalog if they don't exist.
func CreateDefaultData(ctx context.Context, repos *appRepos.Repositories, admin Admin, lgr zerolog.Logger) error {
	var finalErr error // collects errors without stopping the process

	if err := createAdmin(ctx, repos.Users, admin, lgr); err != nil {
		finalErr = errors.Join(finalErr, err)
	}

	if err := createCatalog(ctx, repos, lgr); err != nil {
		finalErr = errors.Join(finalErr, err)
	}

	return finalErr
}

func createAdmin(ctx context.Context, userRepo appRepos.UserRepository, admin Admin, lgr zerolog.Logger) error {
	if admin.Email == "" || admin.Password == "" {
		lgr.Warn().Msg("No admin credentials configured, skipping default admin")
		return nil
	}

	_, err := userRepo.GetByEmail(ctx, admin.Email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		lgr.Error().Err(err).Msg("Error checking if admin user exists")
		return err
	}

	lgr.Info().Str("email", admin.Email).Msg("Creating default admin user...")
	hashedPassword, err := auth.HashPassword(admin.Password)
	if err != nil {
		lgr.Error().Err(err).Msg("Error hashing admin password")
		return err
	}

	adminID, err := userRepo.Create(ctx, &appModels.User{
		Email:     admin.Email,
		Password:  hashedPassword,
		FirstName: "System",
		LastName:  "Administrator",
		RoleType:  appModels.RoleAdmin,
		Language:  "ar",
		IsActive:  true,
	})
	if err != nil && !errors.Is(err, apperrors.ErrEmailAlreadyExists) {
		lgr.Error().Err(err).Msg("Error creating admin user")
		return err
	}

	lgr.Info().Int64("adminID", adminID).Msg("Default admin user created successfully")
	return nil
}

func createCatalog(ctx context.Context, repos *appRepos.Repositories, lgr zerolog.Logger) error {
	existing, err := repos.Universities.List(ctx, dto.UniversityFilter{})
	if err != nil {
		lgr.Error().Err(err).Msg("Error listing universities")
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	lgr.Info().Msg("Creating default catalog (universities/programs)...")
	var finalErr error
	for _, entry := range defaultCatalog {
		university := entry.university
		universityID, err := repos.Universities.Create(ctx, &university)
		if err != nil {
			lgr.Error().Err(err).Str("university", university.Name).Msg("Error creating university")
			finalErr = errors.Join(finalErr, err)
			continue
		}

		for _, p := range entry.programs {
			program := p
			program.UniversityID = universityID
			if _, err := repos.Programs.Create(ctx, &program); err != nil {
				lgr.Error().Err(err).Str("program", program.Name).Msg("Error creating program")
				finalErr = errors.Join(finalErr, err)
			}
		}
	}
	return finalErr
}
