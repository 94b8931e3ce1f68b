package cmd

import (
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		if clearData {
			clearSeedData(db)
		}

		departments := []struct {
			Name string
			Desc string
		}{
			{"Engineering", "Builds and runs the product"},
			{"Human Resources", "People operations"},
			{"Finance", "Budgeting and payroll"},
			{"Facilities", "Office and equipment"},
		}

		deptIDs := make(map[string]int64, len(departments))
		for _, d := range departments {
			var id int64
			err := db.Get(&id, "SELECT id FROM departments WHERE LOWER(name) = LOWER($1)", d.Name)
			if err != nil {
				if err := db.Get(&id,
					"INSERT INTO departments (name, description, created_at, updated_at) VALUES ($1, $2, now(), now()) RETURNING id",
					d.Name, d.Desc); err != nil {
					log.Fatalf("failed to insert department %s: %v", d.Name, err)
				}
				fmt.Println("Seeded department:", d.Name)
			}
			deptIDs[d.Name] = id
		}

		// Everyone may rate the service departments; the service departments
		// may rate each other.
		grants := [][2]string{
			{"Engineering", "Human Resources"},
			{"Engineering", "Finance"},
			{"Engineering", "Facilities"},
			{"Human Resources", "Finance"},
			{"Human Resources", "Facilities"},
			{"Finance", "Human Resources"},
			{"Facilities", "Human Resources"},
		}
		for _, g := range grants {
			from, to := deptIDs[g[0]], deptIDs[g[1]]
			var exists int
			if err := db.Get(&exists,
				"SELECT 1 FROM department_mappings WHERE from_department_id = $1 AND to_department_id = $2", from, to); err == nil {
				continue
			}
			if _, err := db.Exec(
				"INSERT INTO department_mappings (from_department_id, to_department_id, created_at) VALUES ($1, $2, now())", from, to); err != nil {
				log.Fatalf("failed to insert mapping %s -> %s: %v", g[0], g[1], err)
			}
			fmt.Printf("Seeded mapping: %s -> %s\n", g[0], g[1])
		}

		categories := []struct {
			Name  string
			Desc  string
			Scope string
		}{
			{"Responsiveness", "How quickly the department reacts to requests", ""},
			{"Quality of Work", "Accuracy and completeness of delivered work", ""},
			{"Communication", "Clarity and frequency of updates", ""},
			{"Recruitment Support", "Hiring pipeline and onboarding help", "Human Resources"},
			{"Expense Turnaround", "Reimbursement and invoice processing speed", "Finance"},
		}
		for _, c := range categories {
			var exists int
			var err error
			if c.Scope == "" {
				err = db.Get(&exists, "SELECT 1 FROM categories WHERE LOWER(name) = LOWER($1) AND scope_department_id IS NULL", c.Name)
			} else {
				err = db.Get(&exists, "SELECT 1 FROM categories WHERE LOWER(name) = LOWER($1) AND scope_department_id = $2", c.Name, deptIDs[c.Scope])
			}
			if err == nil {
				continue
			}

			if c.Scope == "" {
				_, err = db.Exec(
					"INSERT INTO categories (name, description, scope_department_id, created_at, updated_at) VALUES ($1, $2, NULL, now(), now())",
					c.Name, c.Desc)
			} else {
				_, err = db.Exec(
					"INSERT INTO categories (name, description, scope_department_id, created_at, updated_at) VALUES ($1, $2, $3, now(), now())",
					c.Name, c.Desc, deptIDs[c.Scope])
			}
			if err != nil {
				log.Fatalf("failed to insert category %s: %v", c.Name, err)
			}
			fmt.Println("Seeded category:", c.Name)
		}

		hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)

		users := []struct {
			Email      string
			Name       string
			Role       string
			Department string
		}{
			{"admin@crossdept.local", "Platform Admin", "admin", "Engineering"},
			{"hod.eng@crossdept.local", "Engineering HOD", "hod", "Engineering"},
			{"dev@crossdept.local", "Developer", "user", "Engineering"},
			{"hr@crossdept.local", "HR Specialist", "user", "Human Resources"},
		}
		userIDs := make(map[string]int64, len(users))
		for _, u := range users {
			var id int64
			err := db.Get(&id, "SELECT id FROM users WHERE email = $1", u.Email)
			if err != nil {
				if err := db.Get(&id,
					"INSERT INTO users (email, name, password_hash, role, department_id, is_active, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, true, now(), now()) RETURNING id",
					u.Email, u.Name, string(hash), u.Role, deptIDs[u.Department]); err != nil {
					log.Fatalf("failed to insert user %s: %v", u.Email, err)
				}
				fmt.Println("Seeded user:", u.Email)
			}
			userIDs[u.Email] = id
		}

		// The Engineering HOD also covers Facilities.
		hodID := userIDs["hod.eng@crossdept.local"]
		var exists int
		if err := db.Get(&exists,
			"SELECT 1 FROM user_affiliations WHERE user_id = $1 AND department_id = $2", hodID, deptIDs["Facilities"]); err != nil {
			if _, err := db.Exec(
				"INSERT INTO user_affiliations (user_id, department_id, created_at) VALUES ($1, $2, now())",
				hodID, deptIDs["Facilities"]); err != nil {
				log.Fatalf("failed to insert affiliation: %v", err)
			}
			fmt.Println("Seeded affiliation: Engineering HOD -> Facilities")
		}

		fmt.Println("Seeding complete")
	},
}

func clearSeedData(db *sqlx.DB) {
	tables := []string{
		"survey_responses",
		"survey_records",
		"surveyed_departments",
		"user_affiliations",
		"users",
		"categories",
		"department_mappings",
		"departments",
	}
	for _, table := range tables {
		if _, err := db.Exec("DELETE FROM " + table); err != nil {
			log.Fatalf("failed to clear table %s: %v", table, err)
		}
	}
	fmt.Println("Cleared existing data")
}
