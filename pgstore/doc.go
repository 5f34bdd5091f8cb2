// Package pgstore implements the UserProvider interface on PostgreSQL via
// pgx. It expects a users table:
//
//	CREATE TABLE users (
//	    id             uuid PRIMARY KEY DEFAULT gen_random_uuid(),
//	    name           text NOT NULL,
//	    email          text NOT NULL UNIQUE,
//	    email_verified boolean NOT NULL DEFAULT false,
//	    image          text,
//	    password_hash  text NOT NULL,
//	    created_at     timestamptz NOT NULL DEFAULT now(),
//	    updated_at     timestamptz NOT NULL DEFAULT now()
//	);
package pgstore
