package cmd

import (
	"fmt"
	"log"

	permissionDatamodel "github.com/frahmantamala/task-management/internal/core/datamodel/permission"
	roleDatamodel "github.com/frahmantamala/task-management/internal/core/datamodel/role"
	taskDatamodel "github.com/frahmantamala/task-management/internal/core/datamodel/task"
	userDatamodel "github.com/frahmantamala/task-management/internal/core/datamodel/user"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := mustLoadConfig()

		db, sqlDB, err := initDB(cfg.Database, cfg.Logging.Level)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer sqlDB.Close()

		if clearData {
			if err := clearTables(db); err != nil {
				log.Fatalf("failed to clear data: %v", err)
			}
			fmt.Println("Cleared existing data")
		}

		if err := seed(db, cfg.Security.BCryptCost); err != nil {
			log.Fatalf("failed to seed: %v", err)
		}
	},
}

func clearTables(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{
			&permissionDatamodel.Permission{},
			&roleDatamodel.Role{},
			&taskDatamodel.Task{},
			&userDatamodel.User{},
		} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func seed(db *gorm.DB, cost int) error {
	hash, err := bcrypt.GenerateFromPassword([]byte("password"), cost)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}

	users := []struct {
		Name  string
		Email string
		Tasks []string
	}{
		{"Fadhil", "fadhil@mail.com", []string{"write the weekly report", "review pull requests"}},
		{"Padil Admin", "padil@mail.com", []string{"rotate credentials"}},
	}

	for _, u := range users {
		var stored userDatamodel.User
		err := db.Where(userDatamodel.User{Email: u.Email}).
			Attrs(userDatamodel.User{Name: u.Name, PasswordHash: string(hash)}).
			FirstOrCreate(&stored).Error
		if err != nil {
			return fmt.Errorf("insert user %s: %w", u.Email, err)
		}
		fmt.Println("Seeded user:", u.Email)

		for _, name := range u.Tasks {
			var t taskDatamodel.Task
			err := db.Where(taskDatamodel.Task{UserID: stored.ID, Name: name}).
				Attrs(taskDatamodel.Task{Description: name}).
				FirstOrCreate(&t).Error
			if err != nil {
				return fmt.Errorf("insert task %q: %w", name, err)
			}
		}
	}

	roles := []struct {
		Name       string
		Desc       string
		Operations []int64
	}{
		{"admin", "full administrator", []int64{1, 2, 3, 4}},
		{"member", "manages own tasks", []int64{1, 2}},
		{"viewer", "read only access", []int64{1}},
	}

	for _, r := range roles {
		var stored roleDatamodel.Role
		err := db.Where(roleDatamodel.Role{Name: r.Name}).
			Attrs(roleDatamodel.Role{Description: r.Desc}).
			FirstOrCreate(&stored).Error
		if err != nil {
			return fmt.Errorf("insert role %s: %w", r.Name, err)
		}

		for _, op := range r.Operations {
			var p permissionDatamodel.Permission
			err := db.Where(permissionDatamodel.Permission{RoleID: stored.ID, OperationID: op}).
				FirstOrCreate(&p).Error
			if err != nil {
				return fmt.Errorf("grant operation %d to role %s: %w", op, r.Name, err)
			}
		}
		fmt.Printf("Seeded role: %s\n", r.Name)
	}

	fmt.Println("Seeding complete")
	return nil
}
