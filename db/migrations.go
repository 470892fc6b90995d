package db

import (
	"database/sql"
	"log"
)

// SQL for the federation tables
const (
	// Follow relationships table
	sqlCreateFollowsTable = `CREATE TABLE IF NOT EXISTS follows (
		id TEXT NOT NULL PRIMARY KEY,
		account_id TEXT NOT NULL,
		target_account_id TEXT NOT NULL,
		uri TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		accepted INTEGER DEFAULT 0,
		UNIQUE(account_id, target_account_id)
	)`

	sqlCreateFollowsIndices = `
		CREATE INDEX IF NOT EXISTS idx_follows_account_id ON follows(account_id);
		CREATE INDEX IF NOT EXISTS idx_follows_target_account_id ON follows(target_account_id);
		CREATE INDEX IF NOT EXISTS idx_follows_uri ON follows(uri);
	`

	// Remote accounts cache table
	sqlCreateRemoteAccountsTable = `CREATE TABLE IF NOT EXISTS remote_accounts (
		id TEXT NOT NULL PRIMARY KEY,
		username TEXT NOT NULL,
		domain TEXT NOT NULL,
		actor_uri TEXT UNIQUE NOT NULL,
		display_name TEXT DEFAULT '',
		summary TEXT DEFAULT '',
		inbox_uri TEXT NOT NULL,
		shared_inbox_uri TEXT DEFAULT '',
		outbox_uri TEXT DEFAULT '',
		public_key_pem TEXT NOT NULL,
		avatar_url TEXT DEFAULT '',
		last_fetched_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(username, domain)
	)`

	sqlCreateRemoteAccountsIndices = `
		CREATE INDEX IF NOT EXISTS idx_remote_accounts_actor_uri ON remote_accounts(actor_uri);
		CREATE INDEX IF NOT EXISTS idx_remote_accounts_domain ON remote_accounts(domain);
	`

	// Likes/favorites table
	sqlCreateLikesTable = `CREATE TABLE IF NOT EXISTS likes (
		id TEXT NOT NULL PRIMARY KEY,
		account_id TEXT NOT NULL,
		dive_id TEXT NOT NULL,
		uri TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(account_id, dive_id)
	)`

	sqlCreateLikesIndices = `
		CREATE INDEX IF NOT EXISTS idx_likes_dive_id ON likes(dive_id);
		CREATE INDEX IF NOT EXISTS idx_likes_account_id ON likes(account_id);
	`

	// Comments table, ap_id dedupes federated redeliveries
	sqlCreateCommentsTable = `CREATE TABLE IF NOT EXISTS dive_comments (
		id TEXT NOT NULL PRIMARY KEY,
		dive_id TEXT NOT NULL,
		account_id TEXT NOT NULL,
		body TEXT NOT NULL,
		ap_id TEXT UNIQUE,
		external INTEGER DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`

	sqlCreateCommentsIndices = `
		CREATE INDEX IF NOT EXISTS idx_dive_comments_dive_id ON dive_comments(dive_id);
		CREATE INDEX IF NOT EXISTS idx_dive_comments_ap_id ON dive_comments(ap_id);
	`

	sqlCreateDivesIndices = `
		CREATE INDEX IF NOT EXISTS idx_dives_user_id ON dives(user_id);
		CREATE INDEX IF NOT EXISTS idx_dives_created_at ON dives(created_at DESC);
	`
)

// RunMigrations executes all database migrations
func (db *DB) RunMigrations() error {
	return db.wrapTransaction(func(tx *sql.Tx) error {
		if err := db.createTableIfNotExists(tx, sqlCreateFollowsTable, "follows"); err != nil {
			return err
		}
		if err := db.createTableIfNotExists(tx, sqlCreateRemoteAccountsTable, "remote_accounts"); err != nil {
			return err
		}
		if err := db.createTableIfNotExists(tx, sqlCreateLikesTable, "likes"); err != nil {
			return err
		}
		if err := db.createTableIfNotExists(tx, sqlCreateCommentsTable, "dive_comments"); err != nil {
			return err
		}

		if _, err := tx.Exec(sqlCreateFollowsIndices); err != nil {
			log.Printf("Warning: Failed to create follows indices: %v", err)
		}
		if _, err := tx.Exec(sqlCreateRemoteAccountsIndices); err != nil {
			log.Printf("Warning: Failed to create remote_accounts indices: %v", err)
		}
		if _, err := tx.Exec(sqlCreateLikesIndices); err != nil {
			log.Printf("Warning: Failed to create likes indices: %v", err)
		}
		if _, err := tx.Exec(sqlCreateCommentsIndices); err != nil {
			log.Printf("Warning: Failed to create dive_comments indices: %v", err)
		}
		if _, err := tx.Exec(sqlCreateDivesIndices); err != nil {
			log.Printf("Warning: Failed to create dives indices: %v", err)
		}

		return nil
	})
}

// RunFederationMigrations runs the federation-specific migrations
func (db *DB) RunFederationMigrations() error {
	log.Println("Running federation migrations...")
	return db.RunMigrations()
}

func (db *DB) createTableIfNotExists(tx *sql.Tx, createSQL string, tableName string) error {
	_, err := tx.Exec(createSQL)
	if err != nil {
		log.Printf("Error creating table %s: %v", tableName, err)
		return err
	}
	log.Printf("Table %s created or already exists", tableName)
	return nil
}
