package seeders

import (
	"log"
	"time"

	"asistencia_colegio_go/database"
	"asistencia_colegio_go/models"
	"asistencia_colegio_go/utils"
)

// SeedAll runs all seeders
func SeedAll() {
	log.Println("Starting database seeding...")

	SeedAdmin()
	SeedStudents()

	log.Println("Database seeding completed successfully!")
}

// SeedAdmin creates the default admin account when no admin exists yet, so a
// fresh deployment is reachable. Change the password after first login.
func SeedAdmin() {
	var count int64
	database.DB.Model(&models.User{}).Where("rol = ?", "admin").Count(&count)
	if count > 0 {
		return
	}

	hashed, err := utils.HashPassword("admin123")
	if err != nil {
		log.Printf("Error hashing default admin password: %v", err)
		return
	}

	admin := models.User{
		Username: "admin",
		Password: hashed,
		Nombre:   "Administrador",
		Rol:      "admin",
		Status:   "active",
	}

	if err := database.DB.Create(&admin).Error; err != nil {
		log.Printf("Error seeding admin user: %v", err)
		return
	}

	log.Println("Usuario admin creado: admin / admin123")
}

// SeedStudents seeds a handful of sample students for development
func SeedStudents() {
	var count int64
	database.DB.Model(&models.Student{}).Count(&count)
	if count > 0 {
		log.Println("Students already seeded, skipping...")
		return
	}

	birth := func(year, month, day int) *time.Time {
		t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		return &t
	}

	students := []models.Student{
		{
			Nombre:          "Ana Maria Lopez",
			Identificacion:  "1001",
			Grado:           "8",
			Grupo:           "A",
			FechaNacimiento: birth(2012, 3, 14),
			Padre:           models.Guardian{Nombre: "Carlos Lopez", Telefono: "3001112233", Ocupacion: "Conductor"},
			Madre:           models.Guardian{Nombre: "Marta Gomez", Telefono: "3004445566", Ocupacion: "Comerciante"},
		},
		{
			Nombre:          "Luis Fernando Rojas",
			Identificacion:  "1002",
			Grado:           "8",
			Grupo:           "A",
			FechaNacimiento: birth(2012, 7, 2),
			Tutor:           models.Guardian{Nombre: "Gloria Rojas", Telefono: "3007778899", Parentesco: "Abuela"},
		},
		{
			Nombre:         "Sofia Castillo",
			Identificacion: "1003",
			Grado:          "9",
			Grupo:          "B",
		},
	}

	for _, student := range students {
		if err := database.DB.Create(&student).Error; err != nil {
			log.Printf("Error seeding student %s: %v", student.Identificacion, err)
		}
	}

	log.Println("Students seeded successfully")
}
