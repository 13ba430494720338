package store

import "embed"

//go:embed migrations/*.sql
var migrations embed.FS

func schema(name string) (string, error) {
	b, err := migrations.ReadFile("migrations/" + name + ".sql")
	if err != nil {
		return "", err
	}

	return string(b), nil
}
