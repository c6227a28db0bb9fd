package seeders

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"maintenance-system/pkg/utils"
)

// Run наполняет базу стартовыми данными. Все сидеры идемпотентны:
// повторный запуск ничего не дублирует.
func Run(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("Запуск сидеров...")

	if err := seedAdmin(ctx, db); err != nil {
		return err
	}
	if err := seedCategories(ctx, db); err != nil {
		return err
	}
	if err := seedTeams(ctx, db); err != nil {
		return err
	}
	if err := seedEquipment(ctx, db); err != nil {
		return err
	}

	log.Println("Сидеры успешно выполнены.")
	return nil
}

func seedAdmin(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - Создание администратора...")

	email := "admin@maintenance.local"
	var userID uint64
	err := db.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", email).Scan(&userID)
	if err == nil {
		log.Println("    - Администратор уже существует. Пропускаем.")
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("ошибка проверки существования администратора: %w", err)
	}

	hash, err := utils.HashPassword("admin123")
	if err != nil {
		return err
	}

	_, err = db.Exec(ctx,
		`INSERT INTO users (name, email, password_hash, role) VALUES ($1, $2, $3, 'ADMIN')`,
		"Администратор", email, hash)
	if err != nil {
		return fmt.Errorf("не удалось создать администратора: %w", err)
	}
	return nil
}

var categoriesData = []string{
	"Станки",
	"Транспорт",
	"Компьютеры",
	"Инструменты",
}

func seedCategories(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - Создание категорий оборудования...")
	for _, name := range categoriesData {
		var id uint64
		err := db.QueryRow(ctx, "SELECT id FROM equipment_categories WHERE name = $1", name).Scan(&id)
		if err == nil {
			continue
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("ошибка проверки категории %q: %w", name, err)
		}
		if _, err := db.Exec(ctx,
			"INSERT INTO equipment_categories (name) VALUES ($1)", name); err != nil {
			return fmt.Errorf("не удалось создать категорию %q: %w", name, err)
		}
	}
	return nil
}

var teamsData = []struct {
	Name    string
	Company string
}{
	{Name: "Механики", Company: "Внутренняя служба"},
	{Name: "Электрики", Company: "Внутренняя служба"},
	{Name: "IT-поддержка", Company: "Внутренняя служба"},
}

func seedTeams(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - Создание команд обслуживания...")
	for _, team := range teamsData {
		var id uint64
		err := db.QueryRow(ctx, "SELECT id FROM maintenance_teams WHERE name = $1", team.Name).Scan(&id)
		if err == nil {
			continue
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("ошибка проверки команды %q: %w", team.Name, err)
		}
		if _, err := db.Exec(ctx,
			"INSERT INTO maintenance_teams (name, company) VALUES ($1, $2)",
			team.Name, team.Company); err != nil {
			return fmt.Errorf("не удалось создать команду %q: %w", team.Name, err)
		}
	}
	return nil
}

var equipmentData = []struct {
	Name     string
	Serial   string
	Category string
	Team     string
}{
	{Name: "Токарный станок #1", Serial: "LT-0001", Category: "Станки", Team: "Механики"},
	{Name: "Фрезерный станок #2", Serial: "MF-0002", Category: "Станки", Team: "Механики"},
	{Name: "Погрузчик", Serial: "FK-1001", Category: "Транспорт", Team: "Механики"},
	{Name: "Сервер приложений", Serial: "SRV-2001", Category: "Компьютеры", Team: "IT-поддержка"},
}

func seedEquipment(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - Создание оборудования...")
	for _, eq := range equipmentData {
		var id uint64
		err := db.QueryRow(ctx, "SELECT id FROM equipment WHERE serial_number = $1", eq.Serial).Scan(&id)
		if err == nil {
			continue
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("ошибка проверки оборудования %q: %w", eq.Serial, err)
		}

		var categoryID, teamID uint64
		if err := db.QueryRow(ctx, "SELECT id FROM equipment_categories WHERE name = $1", eq.Category).Scan(&categoryID); err != nil {
			return fmt.Errorf("не найдена категория %q: %w", eq.Category, err)
		}
		if err := db.QueryRow(ctx, "SELECT id FROM maintenance_teams WHERE name = $1", eq.Team).Scan(&teamID); err != nil {
			return fmt.Errorf("не найдена команда %q: %w", eq.Team, err)
		}

		if _, err := db.Exec(ctx,
			`INSERT INTO equipment (name, serial_number, category_id, team_id) VALUES ($1, $2, $3, $4)`,
			eq.Name, eq.Serial, categoryID, teamID); err != nil {
			return fmt.Errorf("не удалось создать оборудование %q: %w", eq.Serial, err)
		}
	}
	return nil
}
