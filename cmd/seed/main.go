package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/DEV-MEDEV/osecours-backend/internal/database"
	"github.com/DEV-MEDEV/osecours-backend/internal/domain"
)

// Seeds the admin account plus the rescue services and one member per
// service, same data set the project has always shipped with.
func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is empty")
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal(err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal(err)
	}

	adminHash, err := bcrypt.GenerateFromPassword([]byte("admin1234"), 10)
	if err != nil {
		log.Fatal(err)
	}

	admin := domain.User{
		Email:        "lycoris@blue.com",
		PasswordHash: string(adminHash),
		FirstName:    "Admin",
		LastName:     "Systeme",
		Role:         domain.RoleAdmin,
		IsActive:     true,
		AdminRights: &domain.AdminRights{
			Permissions: []string{"USERS_MANAGE", "SERVICES_MANAGE", "LOGS_VIEW"},
			IsActive:    true,
		},
	}
	if err := db.Where("email = ?", admin.Email).FirstOrCreate(&admin).Error; err != nil {
		log.Fatal(err)
	}

	services := []domain.RescueService{
		{Name: "Pompiers", ServiceType: "Incendie", ContactNumber: "112"},
		{Name: "Police Nationale", ServiceType: "Sécurité", ContactNumber: "17"},
		{Name: "SAMU", ServiceType: "Urgence médicale", ContactNumber: "15"},
		{Name: "Protection Civile", ServiceType: "Secours divers", ContactNumber: "114"},
	}

	for i := range services {
		if err := db.Where("name = ?", services[i].Name).FirstOrCreate(&services[i]).Error; err != nil {
			log.Fatal(err)
		}

		memberHash, err := bcrypt.GenerateFromPassword([]byte(fmt.Sprintf("secours123%d", i+1)), 10)
		if err != nil {
			log.Fatal(err)
		}

		member := domain.User{
			Email:        fmt.Sprintf("secours%d@example.com", i+1),
			PasswordHash: string(memberHash),
			FirstName:    fmt.Sprintf("Membre%d", i+1),
			LastName:     fmt.Sprintf("Service%d", i+1),
			Role:         domain.RoleRescueMember,
			IsActive:     true,
			RescueMember: &domain.RescueMember{
				RescueServiceID: services[i].ID,
				BadgeNumber:     fmt.Sprintf("RM00%d", i+1),
				Position:        "Intervenant",
			},
		}
		if err := db.Where("email = ?", member.Email).FirstOrCreate(&member).Error; err != nil {
			log.Fatal(err)
		}
	}

	log.Println("Admin et membres des secours créés.")
}
