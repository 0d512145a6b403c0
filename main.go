package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/modamedidas-api/config"
	"github.com/kendall-kelly/modamedidas-api/middleware"
	"github.com/kendall-kelly/modamedidas-api/models"
	"github.com/kendall-kelly/modamedidas-api/routes"
	"github.com/kendall-kelly/modamedidas-api/services"
	"github.com/kendall-kelly/modamedidas-api/utils"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "modamedidas-api",
		Short:        "ModaMedidas API server and maintenance commands",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP API",
			RunE: func(cmd *cobra.Command, args []string) error {
				return serve()
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Create or update the database schema",
			RunE: func(cmd *cobra.Command, args []string) error {
				_, err := connect()
				return err
			},
		},
		&cobra.Command{
			Use:   "seed-templates",
			Short: "Insert the system garment templates if none exist",
			RunE: func(cmd *cobra.Command, args []string) error {
				db, err := connect()
				if err != nil {
					return err
				}
				count, seeded, err := models.SeedSystemTemplates(db)
				if err != nil {
					return fmt.Errorf("seed templates: %w", err)
				}
				if seeded {
					log.Printf("Seeded %d system templates", count)
				} else {
					log.Printf("System templates already present (%d), nothing to do", count)
				}
				return nil
			},
		},
		newCreateAdminCmd(),
		newSeedServicesCmd(),
	)

	return root
}

func newCreateAdminCmd() *cobra.Command {
	var email, password, name string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin account or promote an existing one",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := connect()
			if err != nil {
				return err
			}
			user, created, err := createAdmin(db, config.GetConfig().BcryptCost, email, password, name)
			if err != nil {
				return err
			}
			if created {
				log.Printf("Created admin %s (%s)", user.Email, user.ID)
			} else {
				log.Printf("Promoted %s (%s) to admin", user.Email, user.ID)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "admin email")
	cmd.Flags().StringVar(&password, "password", "", "admin password (required for new accounts)")
	cmd.Flags().StringVar(&name, "name", "Administrator", "admin display name")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func newSeedServicesCmd() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "seed-services",
		Short: "Give a designer the starter service catalog if they have none",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := connect()
			if err != nil {
				return err
			}
			user, count, seeded, err := seedServices(db, email)
			if err != nil {
				return err
			}
			if seeded {
				log.Printf("Seeded %d services for %s", count, user.Email)
			} else {
				log.Printf("%s already has %d services, nothing to do", user.Email, count)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "designer email")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

// seedServices gives the account with email the starter service catalog
func seedServices(db *gorm.DB, email string) (*models.User, int64, bool, error) {
	email = models.NormalizeEmail(email)
	if email == "" {
		return nil, 0, false, errors.New("email is required")
	}

	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, false, fmt.Errorf("no account with email %s", email)
		}
		return nil, 0, false, fmt.Errorf("look up account: %w", err)
	}

	count, seeded, err := models.SeedServices(db, user.ID)
	if err != nil {
		return nil, 0, false, fmt.Errorf("seed services: %w", err)
	}
	return &user, count, seeded, nil
}

// connect loads the configuration, opens the database and migrates it
func connect() (*gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	if err := config.ConnectDatabase(cfg); err != nil {
		return nil, err
	}

	db := config.GetDB()
	if err := models.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	log.Println("Database migration completed successfully")
	return db, nil
}

func serve() error {
	log.Println("Starting ModaMedidas API server...")

	if _, err := connect(); err != nil {
		return err
	}
	cfg := config.GetConfig()

	utils.UploadDir = cfg.UploadDir
	store, err := services.NewObjectStore(context.Background(), cfg)
	if err != nil {
		return fmt.Errorf("failed to set up image storage: %w", err)
	}
	services.InitImageService(store)

	limiters, err := routes.NewLimiters(cfg)
	if err != nil {
		return fmt.Errorf("failed to set up rate limiting: %w", err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := setupRouter(cfg, limiters)

	port := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", port)
	return router.Run(port)
}

// setupRouter builds the engine with logging, recovery and every API route
func setupRouter(cfg *config.Config, limiters routes.Limiters) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestLogger(), gin.Recovery())
	routes.Setup(router, cfg, limiters)
	return router
}

// createAdmin promotes the account with email to admin, creating it first
// when it does not exist yet
func createAdmin(db *gorm.DB, cost int, email, password, name string) (*models.User, bool, error) {
	email = models.NormalizeEmail(email)
	if email == "" {
		return nil, false, errors.New("email is required")
	}

	var user models.User
	err := db.Where("email = ?", email).First(&user).Error
	switch {
	case err == nil:
		if err := db.Model(&user).Update("role", models.RoleAdmin).Error; err != nil {
			return nil, false, fmt.Errorf("promote admin: %w", err)
		}
		user.Role = models.RoleAdmin
		return &user, false, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, false, fmt.Errorf("look up account: %w", err)
	}

	user = models.User{Name: name, Email: email, Role: models.RoleAdmin, IsActive: true}
	if err := user.SetPassword(password, cost); err != nil {
		return nil, false, err
	}
	if err := db.Create(&user).Error; err != nil {
		return nil, false, fmt.Errorf("create admin: %w", err)
	}
	return &user, true, nil
}
