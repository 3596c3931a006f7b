package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"go.llib.dev/restassured/domain/stuff"
	"go.llib.dev/restassured/port/crud"
)

type StuffRepository struct{ DB *DB }

const stuffColumns = `id, name, answer, status`

func (r StuffRepository) Create(ctx context.Context, ptr *stuff.Stuff) error {
	if ptr.ID != 0 {
		_, found, err := r.FindByID(ctx, ptr.ID)
		if err != nil {
			return err
		}
		if found {
			return crud.ErrAlreadyExists.F("stuff already exists with id: %d", ptr.ID)
		}
		_, err = r.DB.db.ExecContext(ctx,
			`INSERT INTO stuff (id, name, answer, status) VALUES (?, ?, ?, ?)`,
			ptr.ID, ptr.Name, nullInt(ptr.Answer), string(ptr.Status))
		return err
	}
	res, err := r.DB.db.ExecContext(ctx,
		`INSERT INTO stuff (name, answer, status) VALUES (?, ?, ?)`,
		ptr.Name, nullInt(ptr.Answer), string(ptr.Status))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	ptr.ID = id
	return nil
}

func (r StuffRepository) FindByID(ctx context.Context, id int64) (stuff.Stuff, bool, error) {
	row := r.DB.db.QueryRowContext(ctx, `SELECT `+stuffColumns+` FROM stuff WHERE id = ?`, id)
	v, err := scanStuff(row)
	if errors.Is(err, sql.ErrNoRows) {
		return stuff.Stuff{}, false, nil
	}
	if err != nil {
		return stuff.Stuff{}, false, err
	}
	return v, true, nil
}

func (r StuffRepository) FindAll(ctx context.Context) ([]stuff.Stuff, error) {
	rows, err := r.DB.db.QueryContext(ctx, `SELECT `+stuffColumns+` FROM stuff ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []stuff.Stuff
	for rows.Next() {
		v, err := scanStuff(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r StuffRepository) Update(ctx context.Context, ptr *stuff.Stuff) error {
	res, err := r.DB.db.ExecContext(ctx,
		`UPDATE stuff SET name = ?, answer = ?, status = ? WHERE id = ?`,
		ptr.Name, nullInt(ptr.Answer), string(ptr.Status), ptr.ID)
	if err != nil {
		return err
	}
	return affectedOne(res, crud.ErrNotFound.F("stuff with id %d", ptr.ID))
}

func (r StuffRepository) DeleteByID(ctx context.Context, id int64) error {
	res, err := r.DB.db.ExecContext(ctx, `DELETE FROM stuff WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return affectedOne(res, crud.ErrNotFound.F("stuff with id %d", id))
}

type scanner interface {
	Scan(dest ...any) error
}

func scanStuff(row scanner) (stuff.Stuff, error) {
	var (
		v      stuff.Stuff
		answer sql.NullInt64
		status string
	)
	if err := row.Scan(&v.ID, &v.Name, &answer, &status); err != nil {
		return stuff.Stuff{}, err
	}
	if answer.Valid {
		n := int(answer.Int64)
		v.Answer = &n
	}
	v.Status = stuff.Status(status)
	return v, nil
}

func nullInt(n *int) sql.NullInt64 {
	if n == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*n), Valid: true}
}
