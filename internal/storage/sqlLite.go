package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"modctl/internal/model"
	"modctl/internal/workflow"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

type Store struct {
	Db *sql.DB
}

func (s *Store) Init() error {
	schema := `create table if not exists comments(
		id integer primary key autoincrement,
		author text not null,
		email text not null,
		body text not null,
		photo_filename text,
		state text not null default 'submitted',
		created_at DATETIME not null
	);
	create table if not exists tasks(
		id text primary key,
		comment_id integer not null,
		review_url text not null,
		context text not null default '{}',
		state text not null default 'pending',
		attempts integer not null default 0,
		max_retries integer not null default 3,
		created_at DATETIME not null,
		updated_at DATETIME not null,
		next_run_at DATETIME,
		output text
	);`
	_, err := s.Db.Exec(schema)
	return err
}

func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}
	store := &Store{
		Db: db,
	}
	if err := store.Init(); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *Store) CreateComment(c *model.Comment) error {
	statement := `insert into comments (
		author, email, body, photo_filename, state, created_at
		) Values (?,?,?,?,?,?);`
	photo := sql.NullString{String: c.PhotoFilename, Valid: c.PhotoFilename != ""}
	res, err := s.Db.Exec(statement, c.Author, c.Email, c.Text, photo, c.State, c.CreatedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = id
	return nil
}

// GetComment returns (nil, nil) when no comment has the given id. An absent
// comment is an expected outcome for the walker, not an error.
func (s *Store) GetComment(id int64) (*model.Comment, error) {
	statement := `select id, author, email, body, photo_filename, state, created_at
		from comments where id = ?`
	row := s.Db.QueryRow(statement, id)

	var c model.Comment
	var photo sql.NullString
	err := row.Scan(&c.ID, &c.Author, &c.Email, &c.Text, &photo, &c.State, &c.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	if photo.Valid {
		c.PhotoFilename = photo.String
	}
	return &c, nil
}

// ApplyTransition applies a named state machine transition as a single
// conditional update: the row changes only if its current state still equals
// the transition's declared source. Returns false (with no error) when the
// guard no longer holds, so concurrent walkers racing on one comment resolve
// to exactly one mutation.
func (s *Store) ApplyTransition(id int64, t workflow.Transition) (bool, error) {
	from, to, err := workflow.Endpoints(t)
	if err != nil {
		return false, err
	}
	statement := `update comments set state = ? where id = ? and state = ?`
	res, err := s.Db.Exec(statement, to, id, from)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

func (s *Store) ListCommentsByState(state string) ([]model.Comment, error) {
	statement := `select id, author, email, body, photo_filename, state, created_at
		from comments where state = ? order by created_at DESC`
	rows, err := s.Db.Query(statement, state)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []model.Comment
	for rows.Next() {
		var c model.Comment
		var photo sql.NullString
		if err := rows.Scan(&c.ID, &c.Author, &c.Email, &c.Text, &photo, &c.State, &c.CreatedAt); err != nil {
			return nil, err
		}
		if photo.Valid {
			c.PhotoFilename = photo.String
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

//state -> count
func (s *Store) GetCommentStats() (map[string]int, error) {
	statement := `select state, count(*) from comments group by state;`

	rows, err := s.Db.Query(statement)
	if err != nil {
		return nil, err
	}

	defer rows.Close()
	stateMap := make(map[string]int)

	for rows.Next() {
		var state string
		var count int

		if err := rows.Scan(&state, &count); err != nil {
			return nil, err
		}
		stateMap[state] = count
	}

	return stateMap, nil
}

// The count and delete forms of the retention sweep must agree, so both
// build on this one predicate over the rejected family and the age cutoff.
const oldRejectedFilter = `state in (?, ?) and created_at < ?`

func oldRejectedArgs(cutoff time.Time) []any {
	return []any{model.RejectedStates[0], model.RejectedStates[1], cutoff}
}

func (s *Store) CountOldRejected(cutoff time.Time) (int, error) {
	statement := `select count(*) from comments where ` + oldRejectedFilter
	var count int
	err := s.Db.QueryRow(statement, oldRejectedArgs(cutoff)...).Scan(&count)
	return count, err
}

func (s *Store) DeleteOldRejected(cutoff time.Time) (int64, error) {
	statement := `delete from comments where ` + oldRejectedFilter
	res, err := s.Db.Exec(statement, oldRejectedArgs(cutoff)...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *Store) EnqueueTask(task *model.Task) error {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	now := time.Now()
	if task.CreatedAt.IsZero() {
		task.CreatedAt = now
	}
	if task.UpdatedAt.IsZero() {
		task.UpdatedAt = now
	}
	if task.NextRunAt.IsZero() {
		task.NextRunAt = now
	}
	if task.State == "" {
		task.State = model.TaskPending
	}
	ctx, err := json.Marshal(task.Context)
	if err != nil {
		return fmt.Errorf("marshal task context: %w", err)
	}

	statement := `insert into tasks (
		id, comment_id, review_url, context, state, attempts, max_retries, created_at, updated_at, next_run_at
		) Values (?,?,?,?,?,?,?,?,?,?);`
	_, err = s.Db.Exec(statement, task.ID, task.CommentID, task.ReviewURL, string(ctx),
		task.State, task.Attempts, task.MaxRetries, task.CreatedAt, task.UpdatedAt, task.NextRunAt)
	if err != nil {
		return err
	}
	return nil
}

// ClaimTask picks the oldest runnable task and marks it processing inside a
// transaction, so no two workers claim the same delivery.
func (s *Store) ClaimTask() (*model.Task, error) {
	tx, err := s.Db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()
	statement := `select id, comment_id, review_url, context, state, attempts, max_retries,
		created_at, updated_at, next_run_at, output from tasks
		where state = ? or (state = ? and next_run_at <= ?)
		order by created_at ASC LIMIT 1`

	row := tx.QueryRow(statement, model.TaskPending, model.TaskFailed, time.Now())

	var task model.Task
	var contextStr string
	var nextRunAtStr sql.NullString
	var outputStr sql.NullString
	err = row.Scan(
		&task.ID,
		&task.CommentID,
		&task.ReviewURL,
		&contextStr,
		&task.State,
		&task.Attempts,
		&task.MaxRetries,
		&task.CreatedAt,
		&task.UpdatedAt,
		&nextRunAtStr,
		&outputStr,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	if err := json.Unmarshal([]byte(contextStr), &task.Context); err != nil {
		return nil, fmt.Errorf("unmarshal task context: %w", err)
	}

	if nextRunAtStr.Valid {
		// This layout matches the format SQLite is storing: "YYYY-MM-DD HH:MM:SS.NNNNNNNNN+ZZ:ZZ"
		const sqliteTimeLayout = time.RFC3339Nano

		t, err := time.Parse(sqliteTimeLayout, nextRunAtStr.String)
		if err == nil {
			task.NextRunAt = t
		}
		if err != nil {
			log.Println(err)
		}
	}
	if outputStr.Valid {
		task.Output = outputStr.String
	}

	updateStatement := `update tasks set
					state = ?,
					updated_at = ?,
					attempts = ?
					where id = ?
					`
	now := time.Now()
	_, err = tx.Exec(updateStatement, model.TaskProcessing, now, task.Attempts+1, task.ID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	task.State = model.TaskProcessing
	task.UpdatedAt = now
	task.Attempts += 1
	return &task, nil
}

// UpdateTask saves all mutable fields of a task after a walker pass.
func (s *Store) UpdateTask(task *model.Task) error {
	updateSQL := `UPDATE tasks SET
	                  state = ?,
	                  attempts = ?,
	                  updated_at = ?,
	                  next_run_at = ?,
					  output = ?
	              WHERE id = ?`
	_, err := s.Db.Exec(updateSQL,
		task.State,
		task.Attempts,
		task.UpdatedAt,
		task.NextRunAt,
		task.Output,
		task.ID,
	)
	return err
}

func (s *Store) ListTasksByState(state string) ([]model.Task, error) {
	statement := `select id, comment_id, review_url, context, state, attempts, max_retries,
		created_at, updated_at, output from tasks where state = ? order by created_at ASC`
	rows, err := s.Db.Query(statement, state)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		var task model.Task
		var contextStr string
		var outputStr sql.NullString
		if err := rows.Scan(
			&task.ID,
			&task.CommentID,
			&task.ReviewURL,
			&contextStr,
			&task.State,
			&task.Attempts,
			&task.MaxRetries,
			&task.CreatedAt,
			&task.UpdatedAt,
			&outputStr,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(contextStr), &task.Context); err != nil {
			return nil, fmt.Errorf("unmarshal task context: %w", err)
		}
		if outputStr.Valid {
			task.Output = outputStr.String
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

func (s *Store) GetTaskStats() (map[string]int, error) {
	statement := `select state, count(*) from tasks group by state;`

	rows, err := s.Db.Query(statement)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stateMap := make(map[string]int)
	for rows.Next() {
		var state string
		var count int
		if err := rows.Scan(&state, &count); err != nil {
			return nil, err
		}
		stateMap[state] = count
	}
	return stateMap, nil
}

func (s *Store) RetryDeadTask(taskID string) error {
	// We reset the state, attempts, and next_run_at time
	sql := `UPDATE tasks SET state = ?, attempts = 0, next_run_at = ?
	        WHERE id = ? AND state = ?`

	res, err := s.Db.Exec(sql,
		model.TaskPending,
		time.Now(),
		taskID,
		model.TaskDead,
	)
	if err != nil {
		return err
	}

	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("no task found with ID '%s' in the dead state", taskID)
	}

	return nil
}
