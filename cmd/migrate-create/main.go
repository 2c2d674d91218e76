package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Scaffolds a timestamped up/down migration pair under db/migrations.
func main() {
	name := flag.String("name", "", "migration name, e.g. add_rooms_table")
	dir := flag.String("dir", filepath.Join("db", "migrations"), "migrations directory")
	flag.Parse()

	cleaned := strings.TrimSpace(*name)
	if cleaned == "" {
		log.Fatal("migration name is required")
	}
	if strings.ContainsAny(cleaned, " \t") {
		log.Fatal("migration name must not contain whitespace")
	}

	version := time.Now().UTC().Format("20060102150405")
	base := fmt.Sprintf("%s_%s", version, cleaned)

	if err := os.MkdirAll(*dir, 0o755); err != nil {
		log.Fatalf("create migrations dir: %v", err)
	}
	for _, step := range []struct {
		suffix  string
		comment string
	}{
		{suffix: ".up.sql", comment: "-- up migration\n"},
		{suffix: ".down.sql", comment: "-- down migration\n"},
	} {
		path := filepath.Join(*dir, base+step.suffix)
		if err := writeNewFile(path, step.comment); err != nil {
			log.Fatalf("create migration: %v", err)
		}
		log.Printf("created %s", path)
	}
}

func writeNewFile(path, content string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("file already exists: %s", path)
	} else if !os.IsNotExist(err) {
		return err
	}
	return os.WriteFile(path, []byte(content), 0o644)
}
