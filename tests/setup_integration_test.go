package tests

import (
	"os"
	"testing"

	"github.com/jobvault/aggregator/internal/config"
	"github.com/jobvault/aggregator/internal/repositories"
	log "github.com/sirupsen/logrus"
)

var dbCtx *repositories.DbContext

func upEnvironment() {

	os.Setenv("DB_CONNECTION_STRING", "testdatabase.db")
	cfg := config.Get()

	var err error
	dbCtx, err = repositories.NewDbContext(cfg.DB.ConnectionString)
	if err != nil {
		log.Fatalf("could not create db context: %s", err)
	}

	err = dbCtx.Migrate()
	if err != nil {
		log.Fatalf("could not migrate db: %s", err)
	}
}

func downEnvironment() {
	_ = dbCtx.Close()
	_ = os.Remove("testdatabase.db")
	_ = os.RemoveAll("testbackups")
}

func TestMain(m *testing.M) {

	err := os.Chdir("../") //chdir to project root so relative paths in code resolve
	if err != nil {
		log.Fatal(err)
	}

	upEnvironment()

	code := m.Run()

	downEnvironment()

	os.Exit(code)
}
