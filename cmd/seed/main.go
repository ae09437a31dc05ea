package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Sandy-Maxx/hospital-sub001/internal/db"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("seed starting")

	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		log.Fatal("POSTGRES_DSN is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, dsn)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	gofakeit.Seed(time.Now().UnixNano())

	doctorIDs, err := seedDoctors(context.Background(), pool, 20)
	if err != nil {
		log.Fatalf("seed doctors: %v", err)
	}
	if err := seedPatients(context.Background(), pool, 5000); err != nil {
		log.Fatalf("seed patients: %v", err)
	}
	if err := seedSessions(context.Background(), pool, doctorIDs); err != nil {
		log.Fatalf("seed sessions: %v", err)
	}
	if err := seedPharmacy(context.Background(), pool, 200); err != nil {
		log.Fatalf("seed pharmacy: %v", err)
	}

	log.Println("seed complete")
}

func seedDoctors(ctx context.Context, pool *pgxpool.Pool, count int) ([]uuid.UUID, error) {
	log.Printf("seeding %d doctors", count)

	specialties := []string{
		"General Medicine",
		"Cardiology",
		"Dermatology",
		"Orthopedics",
		"Pediatrics",
		"ENT",
		"Ophthalmology",
		"Gynecology",
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	ids := make([]uuid.UUID, 0, count)
	for i := 0; i < count; i++ {
		id := uuid.New()
		name := "Dr. " + gofakeit.Name()
		spec := specialties[gofakeit.Number(0, len(specialties)-1)]

		_, err := tx.Exec(ctx, `
			INSERT INTO doctors (id, name, specialty, created_at, updated_at)
			VALUES ($1, $2, $3, now(), now())
		`, id, name, spec)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	log.Println("doctors seeded")
	return ids, nil
}

func seedPatients(ctx context.Context, pool *pgxpool.Pool, count int) error {
	log.Printf("seeding %d patients", count)

	const batchSize = 500

	for offset := 0; offset < count; offset += batchSize {
		end := offset + batchSize
		if end > count {
			end = count
		}

		tx, err := pool.Begin(ctx)
		if err != nil {
			return err
		}

		for i := offset; i < end; i++ {
			id := uuid.New()
			mrn := fmt.Sprintf("MRN%06d", i+1)
			name := gofakeit.Name()
			phone := gofakeit.Phone()
			email := gofakeit.Email()

			_, err := tx.Exec(ctx, `
				INSERT INTO patients (id, mrn, name, phone, email, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, now(), now())
			`, id, mrn, name, phone, email)
			if err != nil {
				_ = tx.Rollback(ctx)
				return err
			}
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}

		log.Printf("patients seeded: %d/%d", end, count)
	}

	log.Println("patients seeded")
	return nil
}

func seedSessions(ctx context.Context, pool *pgxpool.Pool, doctorIDs []uuid.UUID) error {
	log.Println("seeding today's sessions")

	today := time.Now().Truncate(24 * time.Hour)

	type window struct {
		name   string
		prefix string
		start  int // hour of day
		end    int
		max    int
	}
	windows := []window{
		{"Morning OPD", "A", 9, 13, 60},
		{"Afternoon OPD", "B", 14, 17, 40},
		{"Evening OPD", "C", 17, 20, 30},
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for i, wnd := range windows {
		id := uuid.New()
		doctorID := doctorIDs[i%len(doctorIDs)]
		start := today.Add(time.Duration(wnd.start) * time.Hour)
		end := today.Add(time.Duration(wnd.end) * time.Hour)

		_, err := tx.Exec(ctx, `
			INSERT INTO sessions (id, name, prefix, session_date, start_time, end_time,
				max_tokens, current_tokens, active, doctor_id, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, 0, true, $8, now(), now())
		`, id, wnd.name, wnd.prefix, today, start, end, wnd.max, doctorID)
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	log.Println("sessions seeded")
	return nil
}

func seedPharmacy(ctx context.Context, pool *pgxpool.Pool, medicineCount int) error {
	log.Printf("seeding %d medicines with stock", medicineCount)

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for i := 0; i < medicineCount; i++ {
		medicineID := uuid.New()
		name := fmt.Sprintf("%s %dmg", gofakeit.LastName(), gofakeit.Number(1, 100)*5)

		_, err := tx.Exec(ctx, `
			INSERT INTO medicines (id, name, generic_name, manufacturer, active, created_at, updated_at)
			VALUES ($1, $2, $3, $4, true, now(), now())
		`, medicineID, name, gofakeit.Word(), gofakeit.Company())
		if err != nil {
			return err
		}

		// One or two batches per medicine; a few close to expiry so the
		// worker has something to alert on.
		batches := gofakeit.Number(1, 2)
		for b := 0; b < batches; b++ {
			qty := gofakeit.Number(5, 500)
			purchase := float64(gofakeit.Number(5, 200))
			expiry := time.Now().AddDate(0, gofakeit.Number(0, 24), 0).AddDate(0, 0, gofakeit.Number(1, 28))

			_, err := tx.Exec(ctx, `
				INSERT INTO medicine_stock (id, medicine_id, batch_number, quantity, available_quantity,
					purchase_price, mrp, expiry_date, active, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $4, $5, $6, $7, true, now(), now())
			`, uuid.New(), medicineID, fmt.Sprintf("B%s-%d", gofakeit.LetterN(4), b),
				qty, purchase, purchase*1.4, expiry)
			if err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	log.Println("pharmacy seeded")
	return nil
}
