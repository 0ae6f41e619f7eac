package sql

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-rel/mysql"
	"github.com/go-rel/rel"
	_ "github.com/go-sql-driver/mysql"

	"github.com/uniauth/saml-idp-core/logging"
)

var logger = logging.Log()

// GetMySqlRepository builds the rel repository from the MYSQL_* environment.
// Fails fatally when the configured connection is unusable, since no entry
// can be served without the store.
func GetMySqlRepository() rel.Repository {
	var err error

	mysqlHost := os.Getenv("MYSQL_HOST")
	if mysqlHost == "" {
		logger.Fatalf("No mysql host configured, mysql repo not available.")
	}
	var mySqlPort int
	mysqlPortEnv := os.Getenv("MYSQL_PORT")
	if mysqlPortEnv != "" {
		mySqlPort, err = strconv.Atoi(mysqlPortEnv)
		if err != nil {
			logger.Fatalf("Invalid mysql port configured: %s", mysqlPortEnv)
		}
	} else {
		mySqlPort = 3306
	}
	mysqlDb := os.Getenv("MYSQL_DATABASE")
	if mysqlDb == "" {
		logger.Fatal("No mysql db configured, mysql repo not available.")
	}
	authEnabled := true

	mysqlUser := os.Getenv("MYSQL_USERNAME")
	mysqlPassword := os.Getenv("MYSQL_PASSWORD")

	if mysqlUser == "" {
		logger.Infof("No user configured for mySql, will try to connect as root.")
		mysqlUser = "root"
	}

	if mysqlPassword == "" {
		logger.Infof("No password configured for mySql, will try to connect without credentials.")
		authEnabled = false
	}

	var connectionString string
	if authEnabled {
		connectionString = fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true", mysqlUser, mysqlPassword, mysqlHost, mySqlPort, mysqlDb)
	} else {
		connectionString = fmt.Sprintf("%s@tcp(%s:%d)/%s?parseTime=true", mysqlUser, mysqlHost, mySqlPort, mysqlDb)
	}

	adapter, err := mysql.Open(connectionString)
	if err != nil {
		logger.Fatalf("Was not able to connect to db: %s:%d/%s as user %s. Err: %v", mysqlHost, mySqlPort, mysqlDb, mysqlUser, err)
	}
	return rel.New(adapter)
}
