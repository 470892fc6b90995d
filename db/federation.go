package db

import (
	"database/sql"

	"github.com/google/uuid"
	"github.com/seadrift/seadrift/domain"
)

// Remote account cache queries. The UNIQUE constraint on actor_uri is the
// authority for concurrent resolution of the same remote URL: the upsert
// converges instead of duplicating.
const (
	sqlUpsertRemoteAccount = `INSERT INTO remote_accounts(id, username, domain, actor_uri, display_name, summary, inbox_uri, shared_inbox_uri, outbox_uri, public_key_pem, avatar_url, last_fetched_at)
                        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
                        ON CONFLICT(actor_uri) DO UPDATE SET
                        username = excluded.username,
                        domain = excluded.domain,
                        display_name = excluded.display_name,
                        summary = excluded.summary,
                        inbox_uri = excluded.inbox_uri,
                        shared_inbox_uri = excluded.shared_inbox_uri,
                        outbox_uri = excluded.outbox_uri,
                        public_key_pem = excluded.public_key_pem,
                        avatar_url = excluded.avatar_url,
                        last_fetched_at = excluded.last_fetched_at`
	sqlSelectRemoteAccountColumns = `SELECT id, username, domain, actor_uri, display_name, summary, inbox_uri, shared_inbox_uri, outbox_uri, public_key_pem, avatar_url, last_fetched_at FROM remote_accounts`
	sqlSelectRemoteAccountByURI   = sqlSelectRemoteAccountColumns + ` WHERE actor_uri = ?`
	sqlSelectRemoteAccountById    = sqlSelectRemoteAccountColumns + ` WHERE id = ?`

	sqlInsertFollow = `INSERT INTO follows(id, account_id, target_account_id, uri, accepted, created_at)
                        VALUES (?, ?, ?, ?, ?, ?)
                        ON CONFLICT(account_id, target_account_id) DO NOTHING`
	sqlDeleteFollowByAccounts   = `DELETE FROM follows WHERE account_id = ? AND target_account_id = ?`
	sqlAcceptFollowByURI        = `UPDATE follows SET accepted = 1 WHERE uri = ? AND target_account_id = ?`
	sqlSelectFollowByAccounts   = `SELECT id, account_id, target_account_id, uri, created_at, accepted FROM follows WHERE account_id = ? AND target_account_id = ?`
	sqlSelectFollowersByAccount = `SELECT id, account_id, target_account_id, uri, created_at, accepted FROM follows WHERE target_account_id = ? ORDER BY created_at DESC`
	sqlCountFollowersByAccount  = `SELECT COUNT(*) FROM follows WHERE target_account_id = ?`

	sqlInsertLike = `INSERT INTO likes(id, account_id, dive_id, uri, created_at)
                        VALUES (?, ?, ?, ?, ?)
                        ON CONFLICT(account_id, dive_id) DO NOTHING`
	sqlDeleteLike          = `DELETE FROM likes WHERE account_id = ? AND dive_id = ?`
	sqlCountLikesByDive    = `SELECT COUNT(*) FROM likes WHERE dive_id = ?`

	sqlInsertComment = `INSERT INTO dive_comments(id, dive_id, account_id, body, ap_id, external, created_at)
                        VALUES (?, ?, ?, ?, ?, ?, ?)`
	sqlSelectCommentByApId   = `SELECT id, dive_id, account_id, body, ap_id, external, created_at FROM dive_comments WHERE ap_id = ?`
	sqlSelectCommentsByDive  = `SELECT id, dive_id, account_id, body, ap_id, external, created_at FROM dive_comments WHERE dive_id = ? ORDER BY created_at ASC`
)

// UpsertRemoteAccount stores a freshly fetched remote actor, converging on
// the existing row when the actor_uri is already cached.
func (db *DB) UpsertRemoteAccount(acc *domain.RemoteAccount) error {
	return db.wrapTransaction(func(tx *sql.Tx) error {
		_, err := tx.Exec(sqlUpsertRemoteAccount,
			acc.Id.String(),
			acc.Username,
			acc.Domain,
			acc.ActorURI,
			acc.DisplayName,
			acc.Summary,
			acc.InboxURI,
			acc.SharedInboxURI,
			acc.OutboxURI,
			acc.PublicKeyPem,
			acc.AvatarURL,
			acc.LastFetchedAt)
		return err
	})
}

func (db *DB) ReadRemoteAccountByURI(uri string) (error, *domain.RemoteAccount) {
	return db.readRemoteAccountRow(sqlSelectRemoteAccountByURI, uri)
}

func (db *DB) ReadRemoteAccountById(id uuid.UUID) (error, *domain.RemoteAccount) {
	return db.readRemoteAccountRow(sqlSelectRemoteAccountById, id.String())
}

func (db *DB) readRemoteAccountRow(query string, arg interface{}) (error, *domain.RemoteAccount) {
	row := db.db.QueryRow(query, arg)
	var acc domain.RemoteAccount
	var id string
	err := row.Scan(&id, &acc.Username, &acc.Domain, &acc.ActorURI, &acc.DisplayName,
		&acc.Summary, &acc.InboxURI, &acc.SharedInboxURI, &acc.OutboxURI,
		&acc.PublicKeyPem, &acc.AvatarURL, &acc.LastFetchedAt)
	if err != nil {
		return err, nil
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return err, nil
	}
	acc.Id = parsed
	return nil, &acc
}

// CreateFollow records a follow edge. A duplicate edge for the same pair is
// an idempotent no-op, never an error.
func (db *DB) CreateFollow(follow *domain.Follow) error {
	return db.wrapTransaction(func(tx *sql.Tx) error {
		accepted := 0
		if follow.Accepted {
			accepted = 1
		}
		_, err := tx.Exec(sqlInsertFollow, follow.Id.String(), follow.AccountId.String(),
			follow.TargetAccountId.String(), follow.URI, accepted, follow.CreatedAt)
		return err
	})
}

// DeleteFollowByAccounts removes a follow edge; removing a non-existent edge
// is a no-op.
func (db *DB) DeleteFollowByAccounts(accountId uuid.UUID, targetAccountId uuid.UUID) error {
	return db.wrapTransaction(func(tx *sql.Tx) error {
		_, err := tx.Exec(sqlDeleteFollowByAccounts, accountId.String(), targetAccountId.String())
		return err
	})
}

// AcceptFollowByURI marks an outbound follow as confirmed by the remote
// side. Only follows aimed at the given target are touched, so a follow
// URI leaking to a third party cannot be used to flip the flag.
func (db *DB) AcceptFollowByURI(uri string, targetAccountId uuid.UUID) error {
	return db.wrapTransaction(func(tx *sql.Tx) error {
		_, err := tx.Exec(sqlAcceptFollowByURI, uri, targetAccountId.String())
		return err
	})
}

func (db *DB) ReadFollowByAccounts(accountId uuid.UUID, targetAccountId uuid.UUID) (error, *domain.Follow) {
	row := db.db.QueryRow(sqlSelectFollowByAccounts, accountId.String(), targetAccountId.String())
	return scanFollow(row)
}

// ReadFollowersByAccountId returns the follow edges pointing at the given
// account, newest first.
func (db *DB) ReadFollowersByAccountId(targetAccountId uuid.UUID) (error, *[]domain.Follow) {
	rows, err := db.db.Query(sqlSelectFollowersByAccount, targetAccountId.String())
	if err != nil {
		return err, nil
	}
	defer rows.Close()

	var follows []domain.Follow
	for rows.Next() {
		err, follow := scanFollow(rows)
		if err != nil {
			return err, &follows
		}
		follows = append(follows, *follow)
	}
	if err = rows.Err(); err != nil {
		return err, &follows
	}
	return nil, &follows
}

func (db *DB) CountFollowersByAccountId(targetAccountId uuid.UUID) (error, int) {
	var count int
	err := db.db.QueryRow(sqlCountFollowersByAccount, targetAccountId.String()).Scan(&count)
	return err, count
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanFollow(row rowScanner) (error, *domain.Follow) {
	var follow domain.Follow
	var id, accountId, targetId string
	var accepted int
	err := row.Scan(&id, &accountId, &targetId, &follow.URI, &follow.CreatedAt, &accepted)
	if err != nil {
		return err, nil
	}
	follow.Id, _ = uuid.Parse(id)
	follow.AccountId, _ = uuid.Parse(accountId)
	follow.TargetAccountId, _ = uuid.Parse(targetId)
	follow.Accepted = accepted != 0
	return nil, &follow
}

// CreateLike records a like; a duplicate like for the same (account, dive)
// pair is an idempotent no-op.
func (db *DB) CreateLike(like *domain.Like) error {
	return db.wrapTransaction(func(tx *sql.Tx) error {
		_, err := tx.Exec(sqlInsertLike, like.Id.String(), like.AccountId.String(),
			like.DiveId.String(), like.URI, like.CreatedAt)
		return err
	})
}

// DeleteLike removes a like; removing a non-existent like is a no-op.
func (db *DB) DeleteLike(accountId uuid.UUID, diveId uuid.UUID) error {
	return db.wrapTransaction(func(tx *sql.Tx) error {
		_, err := tx.Exec(sqlDeleteLike, accountId.String(), diveId.String())
		return err
	})
}

func (db *DB) CountLikesByDiveId(diveId uuid.UUID) (error, int) {
	var count int
	err := db.db.QueryRow(sqlCountLikesByDive, diveId.String()).Scan(&count)
	return err, count
}

// CreateExternalComment stores a federated comment, keeping the originating
// activity id for deduplication on redelivery.
func (db *DB) CreateExternalComment(comment *domain.DiveComment) error {
	return db.wrapTransaction(func(tx *sql.Tx) error {
		external := 0
		if comment.External {
			external = 1
		}
		_, err := tx.Exec(sqlInsertComment, comment.Id.String(), comment.DiveId.String(),
			comment.AccountId.String(), comment.Body, comment.ApId, external, comment.CreatedAt)
		return err
	})
}

func (db *DB) ReadCommentByApId(apId string) (error, *domain.DiveComment) {
	row := db.db.QueryRow(sqlSelectCommentByApId, apId)
	return scanComment(row)
}

func (db *DB) ReadCommentsByDiveId(diveId uuid.UUID) (error, *[]domain.DiveComment) {
	rows, err := db.db.Query(sqlSelectCommentsByDive, diveId.String())
	if err != nil {
		return err, nil
	}
	defer rows.Close()

	var comments []domain.DiveComment
	for rows.Next() {
		err, comment := scanComment(rows)
		if err != nil {
			return err, &comments
		}
		comments = append(comments, *comment)
	}
	if err = rows.Err(); err != nil {
		return err, &comments
	}
	return nil, &comments
}

func scanComment(row rowScanner) (error, *domain.DiveComment) {
	var comment domain.DiveComment
	var id, diveId, accountId string
	var external int
	err := row.Scan(&id, &diveId, &accountId, &comment.Body, &comment.ApId, &external, &comment.CreatedAt)
	if err != nil {
		return err, nil
	}
	comment.Id, _ = uuid.Parse(id)
	comment.DiveId, _ = uuid.Parse(diveId)
	comment.AccountId, _ = uuid.Parse(accountId)
	comment.External = external != 0
	return nil, &comment
}
