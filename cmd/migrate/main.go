package main

import (
	"errors"
	"flag"
	"log"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

func main() {
	path := flag.String("path", "cafe", "which database to migrate (auth or cafe)")
	down := flag.Bool("down", false, "roll the migrations back instead of applying them")
	flag.Parse()

	m, err := migrate.New(
		"file://internal/databases/migrations/"+*path,
		"sqlite3://internal/databases/"+*path+".db",
	)
	if err != nil {
		log.Fatal(err)
	}

	if *down {
		err = m.Down()
	} else {
		err = m.Up()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Fatal(err)
	}
	log.Println("Migrations applied for the", *path, "database")
}

/*
This project is the monolithic back office API for the Meltemi Trade & Logistics platform:
shipments, contracts, customs and finance tooling for the operations teams, plus the
internal cafeteria services.
Copyright (C) 2026 Meltemi Logistics
    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU General Public License as published by
    the Free Software Foundation, either version 3 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU General Public License
    along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/
