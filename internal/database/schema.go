package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schema holds the DDL for every table the application uses.  Each
// statement is CREATE TABLE IF NOT EXISTS, so InitSchema can run on
// every boot without clobbering existing data.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS counters (
		name VARCHAR(64)    NOT NULL PRIMARY KEY,
		seq  BIGINT UNSIGNED NOT NULL DEFAULT 0
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS users (
		id            BIGINT UNSIGNED NOT NULL PRIMARY KEY,
		email         VARCHAR(255)    NOT NULL,
		password_hash VARCHAR(255)    NOT NULL,
		name          VARCHAR(255)    NOT NULL,
		role          VARCHAR(32)     NOT NULL,
		created_at    DATETIME        NOT NULL,
		UNIQUE KEY uq_users_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS jobs (
		id              BIGINT UNSIGNED NOT NULL PRIMARY KEY,
		title           VARCHAR(255)    NOT NULL,
		company         VARCHAR(255)    NOT NULL,
		description     TEXT            NOT NULL,
		requirements    TEXT            NOT NULL,
		required_skills JSON            NULL,
		type            VARCHAR(32)     NOT NULL,
		created_by_id   BIGINT UNSIGNED NOT NULL,
		created_at      DATETIME        NOT NULL,
		KEY idx_jobs_created_at (created_at)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS applications (
		id            BIGINT UNSIGNED NOT NULL PRIMARY KEY,
		job_id        BIGINT UNSIGNED NOT NULL,
		applicant_id  BIGINT UNSIGNED NOT NULL,
		status        VARCHAR(32)     NOT NULL,
		name          VARCHAR(255)    NOT NULL DEFAULT '',
		email         VARCHAR(255)    NOT NULL DEFAULT '',
		phone         VARCHAR(64)     NOT NULL DEFAULT '',
		location      VARCHAR(255)    NOT NULL DEFAULT '',
		cover_letter  TEXT            NULL,
		having_skills JSON            NULL,
		resume_url    VARCHAR(512)    NOT NULL DEFAULT '',
		created_at    DATETIME        NOT NULL,
		updated_at    DATETIME        NOT NULL,
		KEY idx_applications_applicant (applicant_id),
		KEY idx_applications_job (job_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS activity_logs (
		id              BIGINT UNSIGNED NOT NULL PRIMARY KEY,
		application_id  BIGINT UNSIGNED NOT NULL,
		action          VARCHAR(64)     NOT NULL,
		previous_status VARCHAR(32)     NULL,
		new_status      VARCHAR(32)     NULL,
		comment         TEXT            NULL,
		updated_by_id   BIGINT UNSIGNED NOT NULL,
		is_automated    TINYINT(1)      NOT NULL DEFAULT 0,
		created_at      DATETIME        NOT NULL,
		KEY idx_activity_logs_application (application_id, created_at)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id         BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		user_id    BIGINT UNSIGNED NOT NULL,
		token_hash CHAR(64)        NOT NULL,
		expires_at DATETIME        NOT NULL,
		revoked_at DATETIME        NULL,
		created_at DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_refresh_tokens_hash (token_hash),
		KEY idx_refresh_tokens_user (user_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// InitSchema creates any missing tables.  It is safe to call on every
// startup; existing tables and their data are left untouched.
func InitSchema(ctx context.Context, db *sql.DB) error {
	for _, ddl := range schema {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}
