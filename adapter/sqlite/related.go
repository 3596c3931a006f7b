package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"go.llib.dev/restassured/domain/stuff"
	"go.llib.dev/restassured/port/crud"
)

type RelatedStuffRepository struct{ DB *DB }

func (r RelatedStuffRepository) Create(ctx context.Context, ptr *stuff.RelatedStuff) error {
	if ptr.ID != 0 {
		if _, found, err := r.FindByID(ctx, ptr.ID); err != nil {
			return err
		} else if found {
			return crud.ErrAlreadyExists.F("related stuff already exists with id: %d", ptr.ID)
		}
		_, err := r.DB.db.ExecContext(ctx, `INSERT INTO related_stuff (id, thing_id) VALUES (?, ?)`, ptr.ID, ptr.Thing)
		return err
	}
	res, err := r.DB.db.ExecContext(ctx, `INSERT INTO related_stuff (thing_id) VALUES (?)`, ptr.Thing)
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

func (r RelatedStuffRepository) FindByID(ctx context.Context, id int64) (stuff.RelatedStuff, bool, error) {
	var v stuff.RelatedStuff
	err := r.DB.db.QueryRowContext(ctx, `SELECT id, thing_id FROM related_stuff WHERE id = ?`, id).
		Scan(&v.ID, &v.Thing)
	if errors.Is(err, sql.ErrNoRows) {
		return stuff.RelatedStuff{}, false, nil
	}
	if err != nil {
		return stuff.RelatedStuff{}, false, err
	}
	return v, true, nil
}

func (r RelatedStuffRepository) FindAll(ctx context.Context) ([]stuff.RelatedStuff, error) {
	rows, err := r.DB.db.QueryContext(ctx, `SELECT id, thing_id FROM related_stuff ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []stuff.RelatedStuff
	for rows.Next() {
		var v stuff.RelatedStuff
		if err := rows.Scan(&v.ID, &v.Thing); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r RelatedStuffRepository) Update(ctx context.Context, ptr *stuff.RelatedStuff) error {
	res, err := r.DB.db.ExecContext(ctx, `UPDATE related_stuff SET thing_id = ? WHERE id = ?`, ptr.Thing, ptr.ID)
	if err != nil {
		return err
	}
	return affectedOne(res, crud.ErrNotFound.F("related stuff with id %d", ptr.ID))
}

func (r RelatedStuffRepository) DeleteByID(ctx context.Context, id int64) error {
	res, err := r.DB.db.ExecContext(ctx, `DELETE FROM related_stuff WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return affectedOne(res, crud.ErrNotFound.F("related stuff with id %d", id))
}

type ManyRelatedStuffRepository struct{ DB *DB }

func (r ManyRelatedStuffRepository) Create(ctx context.Context, ptr *stuff.ManyRelatedStuff) error {
	if ptr.ID != 0 {
		if _, found, err := r.FindByID(ctx, ptr.ID); err != nil {
			return err
		} else if found {
			return crud.ErrAlreadyExists.F("many related stuff already exists with id: %d", ptr.ID)
		}
	}
	return r.DB.inTx(ctx, func(tx *sql.Tx) error {
		var (
			res sql.Result
			err error
		)
		if ptr.ID != 0 {
			res, err = tx.ExecContext(ctx, `INSERT INTO many_related_stuff (id) VALUES (?)`, ptr.ID)
		} else {
			res, err = tx.ExecContext(ctx, `INSERT INTO many_related_stuff DEFAULT VALUES`)
		}
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		if err := insertMembers(ctx, tx, id, ptr.Stuff); err != nil {
			return err
		}
		ptr.ID = id
		return nil
	})
}

func (r ManyRelatedStuffRepository) FindByID(ctx context.Context, id int64) (stuff.ManyRelatedStuff, bool, error) {
	var exists int64
	err := r.DB.db.QueryRowContext(ctx, `SELECT id FROM many_related_stuff WHERE id = ?`, id).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return stuff.ManyRelatedStuff{}, false, nil
	}
	if err != nil {
		return stuff.ManyRelatedStuff{}, false, err
	}
	members, err := selectMembers(ctx, r.DB.db, id)
	if err != nil {
		return stuff.ManyRelatedStuff{}, false, err
	}
	return stuff.ManyRelatedStuff{ID: id, Stuff: members}, true, nil
}

func (r ManyRelatedStuffRepository) FindAll(ctx context.Context) ([]stuff.ManyRelatedStuff, error) {
	rows, err := r.DB.db.QueryContext(ctx, `SELECT id FROM many_related_stuff ORDER BY id`)
	if err != nil {
		return nil, err
	}
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	// the pool has a single connection, so rows must be released before the member queries
	rows.Close()
	out := make([]stuff.ManyRelatedStuff, 0, len(ids))
	for _, id := range ids {
		members, err := selectMembers(ctx, r.DB.db, id)
		if err != nil {
			return nil, err
		}
		out = append(out, stuff.ManyRelatedStuff{ID: id, Stuff: members})
	}
	return out, nil
}

func (r ManyRelatedStuffRepository) Update(ctx context.Context, ptr *stuff.ManyRelatedStuff) error {
	return r.DB.inTx(ctx, func(tx *sql.Tx) error {
		var exists int64
		err := tx.QueryRowContext(ctx, `SELECT id FROM many_related_stuff WHERE id = ?`, ptr.ID).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return crud.ErrNotFound.F("many related stuff with id %d", ptr.ID)
		}
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM many_related_stuff_stuff WHERE many_related_stuff_id = ?`, ptr.ID); err != nil {
			return err
		}
		return insertMembers(ctx, tx, ptr.ID, ptr.Stuff)
	})
}

func (r ManyRelatedStuffRepository) DeleteByID(ctx context.Context, id int64) error {
	res, err := r.DB.db.ExecContext(ctx, `DELETE FROM many_related_stuff WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return affectedOne(res, crud.ErrNotFound.F("many related stuff with id %d", id))
}

func insertMembers(ctx context.Context, q queryer, id int64, members []int64) error {
	for _, member := range members {
		if _, err := q.ExecContext(ctx,
			`INSERT OR IGNORE INTO many_related_stuff_stuff (many_related_stuff_id, stuff_id) VALUES (?, ?)`,
			id, member); err != nil {
			return err
		}
	}
	return nil
}

func selectMembers(ctx context.Context, q queryer, id int64) ([]int64, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT stuff_id FROM many_related_stuff_stuff WHERE many_related_stuff_id = ? ORDER BY stuff_id`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var members []int64
	for rows.Next() {
		var member int64
		if err := rows.Scan(&member); err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	return members, rows.Err()
}
