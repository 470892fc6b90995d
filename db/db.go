package db

import (
	"context"
	"database/sql"
	"sync"

	"github.com/charmbracelet/ssh"
	"github.com/google/uuid"
	"github.com/seadrift/seadrift/domain"
	"github.com/seadrift/seadrift/util"
	"log"
	"modernc.org/sqlite"
	sqlitelib "modernc.org/sqlite/lib"
	"time"
)

// DB is the database struct.
type DB struct {
	db *sql.DB
}

var (
	dbInstance *DB
	dbOnce     sync.Once
)

const (
	//Accounts
	sqlCreateAccountsTable = `CREATE TABLE IF NOT EXISTS accounts(
                        id uuid NOT NULL PRIMARY KEY,
                        username varchar(100) UNIQUE NOT NULL,
                        publickey varchar(1000) UNIQUE,
                        created_at timestamp default current_timestamp,
                        first_time_login int default 1,
                        web_public_key text,
                        web_private_key text,
                        display_name varchar(255) default '',
                        summary text default ''
                        )`
	sqlInsertAccount           = `INSERT INTO accounts(id, username, publickey, web_public_key, web_private_key, created_at) VALUES (?, ?, ?, ?, ?, ?)`
	sqlUpdateLoginById         = `UPDATE accounts SET first_time_login = 0, username = ?, display_name = ?, summary = ? WHERE id = ?`
	sqlSelectAccByPublicKey    = `SELECT id, username, publickey, created_at, first_time_login, web_public_key, web_private_key, display_name, summary FROM accounts WHERE publickey = ?`
	sqlSelectAccById           = `SELECT id, username, publickey, created_at, first_time_login, web_public_key, web_private_key, display_name, summary FROM accounts WHERE id = ?`
	sqlSelectAccByUsername     = `SELECT id, username, publickey, created_at, first_time_login, web_public_key, web_private_key, display_name, summary FROM accounts WHERE username = ?`

	//Dives
	sqlCreateDivesTable = `CREATE TABLE IF NOT EXISTS dives(
                        id uuid NOT NULL PRIMARY KEY,
                        user_id uuid NOT NULL,
                        dive_number int NOT NULL,
                        site_name varchar(255),
                        max_depth real default 0,
                        duration_min int default 0,
                        description varchar(2000),
                        created_at timestamp default current_timestamp
                        )`
	sqlInsertDive     = `INSERT INTO dives(id, user_id, dive_number, site_name, max_depth, duration_min, description, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	sqlNextDiveNumber = `SELECT COALESCE(MAX(dive_number), 0) + 1 FROM dives WHERE user_id = ?`
	sqlSelectDiveById = `SELECT dives.id, accounts.username, dives.dive_number, dives.site_name, dives.max_depth, dives.duration_min, dives.description, dives.created_at FROM dives
                                                            INNER JOIN accounts ON accounts.id = dives.user_id
                                                            WHERE dives.id = ?`
	sqlSelectDivesByUserId = `SELECT dives.id, accounts.username, dives.dive_number, dives.site_name, dives.max_depth, dives.duration_min, dives.description, dives.created_at FROM dives
                                                            INNER JOIN accounts ON accounts.id = dives.user_id
                                                            WHERE dives.user_id = ?
                                                            ORDER BY dives.created_at DESC`
	sqlSelectDivesByUsername = `SELECT dives.id, accounts.username, dives.dive_number, dives.site_name, dives.max_depth, dives.duration_min, dives.description, dives.created_at FROM dives
                                                            INNER JOIN accounts ON accounts.id = dives.user_id
                                                            WHERE accounts.username = ?
                                                            ORDER BY dives.created_at DESC`
	sqlSelectAllDives = `SELECT dives.id, accounts.username, dives.dive_number, dives.site_name, dives.max_depth, dives.duration_min, dives.description, dives.created_at FROM dives
                                                            INNER JOIN accounts ON accounts.id = dives.user_id
                                                            ORDER BY dives.created_at DESC`
	sqlCountAccounts = `SELECT COUNT(*) FROM accounts`
	sqlCountDives    = `SELECT COUNT(*) FROM dives`
)

func (db *DB) CreateAccount(s ssh.Session, username string) (error, bool) {
	err, found := db.ReadAccBySession(s)
	if err != nil {
		log.Printf("No records for %s found, creating new user..", username)
	}

	if found != nil {
		return nil, true
	}

	keypair := util.GeneratePemKeypair()
	err2 := db.CreateAccByUsername(s, username, keypair)
	if err2 != nil {
		log.Println("Creating new user failed: ", err2)
		return err2, false
	}
	return nil, true
}

func (db *DB) CreateAccByUsername(s ssh.Session, username string, webKeyPair *util.RsaKeyPair) error {
	pkHash := util.PkToHash(util.PublicKeyToString(s.PublicKey()))
	return db.CreateAccountWithKeys(username, pkHash, webKeyPair)
}

// CreateAccountWithKeys stores an account with a precomputed public key
// hash and web keypair.
func (db *DB) CreateAccountWithKeys(username string, pkHash string, webKeyPair *util.RsaKeyPair) error {
	return db.wrapTransaction(func(tx *sql.Tx) error {
		_, err := tx.Exec(sqlInsertAccount, uuid.New(), username, pkHash, webKeyPair.Public, webKeyPair.Private, time.Now())
		return err
	})
}

// CreateDive assigns the next dive number for the diver and stores the dive.
// The generated id is written back into the returned dive so callers can
// federate it.
func (db *DB) CreateDive(save *domain.SaveDive) (error, *domain.Dive) {
	diveId := uuid.New()
	createdAt := time.Now()

	err := db.wrapTransaction(func(tx *sql.Tx) error {
		var number int
		if err := tx.QueryRow(sqlNextDiveNumber, save.UserId).Scan(&number); err != nil {
			return err
		}
		_, err := tx.Exec(sqlInsertDive, diveId, save.UserId, number, save.SiteName,
			save.MaxDepth, save.DurationMin, save.Description, createdAt)
		return err
	})
	if err != nil {
		return err, nil
	}

	return db.ReadDiveById(diveId)
}

func (db *DB) UpdateLoginById(username string, displayName string, summary string, id uuid.UUID) error {
	return db.wrapTransaction(func(tx *sql.Tx) error {
		_, err := tx.Exec(sqlUpdateLoginById, username, displayName, summary, id)
		return err
	})
}

func (db *DB) ReadAccBySession(s ssh.Session) (error, *domain.Account) {
	publicKeyToString := util.PublicKeyToString(s.PublicKey())
	return db.readAccRow(sqlSelectAccByPublicKey, util.PkToHash(publicKeyToString))
}

func (db *DB) ReadAccByPkHash(pkHash string) (error, *domain.Account) {
	return db.readAccRow(sqlSelectAccByPublicKey, pkHash)
}

func (db *DB) ReadAccById(id uuid.UUID) (error, *domain.Account) {
	return db.readAccRow(sqlSelectAccById, id)
}

func (db *DB) ReadAccByUsername(username string) (error, *domain.Account) {
	return db.readAccRow(sqlSelectAccByUsername, username)
}

func (db *DB) readAccRow(query string, arg interface{}) (error, *domain.Account) {
	row := db.db.QueryRow(query, arg)
	var tempAcc domain.Account
	err := row.Scan(&tempAcc.Id, &tempAcc.Username, &tempAcc.Publickey, &tempAcc.CreatedAt,
		&tempAcc.FirstTimeLogin, &tempAcc.WebPublicKey, &tempAcc.WebPrivateKey,
		&tempAcc.DisplayName, &tempAcc.Summary)
	if err != nil {
		return err, nil
	}
	return nil, &tempAcc
}

func (db *DB) ReadDiveById(id uuid.UUID) (error, *domain.Dive) {
	row := db.db.QueryRow(sqlSelectDiveById, id)
	var dive domain.Dive
	err := row.Scan(&dive.Id, &dive.CreatedBy, &dive.DiveNumber, &dive.SiteName,
		&dive.MaxDepth, &dive.DurationMin, &dive.Description, &dive.CreatedAt)
	if err != nil {
		return err, nil
	}
	return nil, &dive
}

func (db *DB) ReadDivesByUserId(userId uuid.UUID) (error, *[]domain.Dive) {
	return db.readDiveRows(sqlSelectDivesByUserId, userId)
}

func (db *DB) ReadDivesByUsername(username string) (error, *[]domain.Dive) {
	return db.readDiveRows(sqlSelectDivesByUsername, username)
}

func (db *DB) ReadAllDives() (error, *[]domain.Dive) {
	return db.readDiveRows(sqlSelectAllDives)
}

func (db *DB) readDiveRows(query string, args ...interface{}) (error, *[]domain.Dive) {
	rows, err := db.db.Query(query, args...)
	if err != nil {
		return err, nil
	}
	defer rows.Close()

	var dives []domain.Dive

	for rows.Next() {
		var dive domain.Dive
		if err := rows.Scan(&dive.Id, &dive.CreatedBy, &dive.DiveNumber, &dive.SiteName,
			&dive.MaxDepth, &dive.DurationMin, &dive.Description, &dive.CreatedAt); err != nil {
			return err, &dives
		}
		dives = append(dives, dive)
	}
	if err = rows.Err(); err != nil {
		return err, &dives
	}

	return nil, &dives
}

func (db *DB) CountAccounts() (error, int) {
	var count int
	err := db.db.QueryRow(sqlCountAccounts).Scan(&count)
	return err, count
}

func (db *DB) CountDives() (error, int) {
	var count int
	err := db.db.QueryRow(sqlCountDives).Scan(&count)
	return err, count
}

func GetDB() *DB {
	dbOnce.Do(func() {
		sqlDB, err := sql.Open("sqlite", "database.db")
		if err != nil {
			panic(err)
		}

		// Configure connection pool for concurrent access
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(time.Hour)

		var journalMode string
		err = sqlDB.QueryRow("PRAGMA journal_mode=WAL").Scan(&journalMode)
		if err != nil {
			log.Printf("Warning: Failed to enable WAL mode: %v", err)
		} else {
			log.Printf("Database journal mode: %s", journalMode)
		}

		// Tuned for the concurrent federation workload
		sqlDB.Exec("PRAGMA synchronous = NORMAL")
		sqlDB.Exec("PRAGMA cache_size = -64000")
		sqlDB.Exec("PRAGMA temp_store = MEMORY")
		sqlDB.Exec("PRAGMA busy_timeout = 5000")
		sqlDB.Exec("PRAGMA foreign_keys = ON")

		dbInstance = &DB{db: sqlDB}

		if err := dbInstance.CreateDB(); err != nil {
			panic(err)
		}
	})

	return dbInstance
}

// CreateDB creates the base schema.
func (db *DB) CreateDB() error {
	return db.wrapTransaction(func(tx *sql.Tx) error {
		if _, err := tx.Exec(sqlCreateAccountsTable); err != nil {
			return err
		}
		_, err := tx.Exec(sqlCreateDivesTable)
		return err
	})
}

// wrapTransaction runs the given function within a transaction, retrying
// while sqlite reports SQLITE_BUSY.
func (db *DB) wrapTransaction(f func(tx *sql.Tx) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	tx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		log.Printf("error starting transaction: %s", err)
		return err
	}
	for {
		err = f(tx)
		if err != nil {
			serr, ok := err.(*sqlite.Error)
			if ok && serr.Code() == sqlitelib.SQLITE_BUSY {
				continue
			}
			tx.Rollback()
			log.Printf("error in transaction: %s", err)
			return err
		}
		err = tx.Commit()
		if err != nil {
			log.Printf("error committing transaction: %s", err)
			return err
		}
		break
	}
	return nil
}
