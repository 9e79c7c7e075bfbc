package repository

const (
	createUserQuery = `INSERT INTO users (fullname, email, password, username, role, api_key, created_at, updated_at)
					VALUES ($1, $2, $3, $4, COALESCE(NULLIF($5, ''), 'user'), $6, now(), now())
					RETURNING *`

	updateUserQuery = `UPDATE users
					SET fullname = COALESCE(NULLIF($1, ''), fullname),
					    email = COALESCE(NULLIF($2, ''), email),
					    role = COALESCE(NULLIF($3, ''), role),
					    updated_at = now()
					WHERE user_id = $4
					RETURNING *`

	deleteUserQuery = `DELETE FROM users WHERE user_id = $1`

	getUserQuery = `SELECT user_id, fullname, username, email, role, api_key, created_at, updated_at
					FROM users
					WHERE user_id = $1`

	getUserByEmailQuery = `SELECT user_id, fullname, username, password, email, role, api_key, created_at, updated_at
					FROM users WHERE email = $1`

	createApiKeyQuery = `UPDATE users SET api_key = $1, updated_at = now() WHERE user_id = $2`

	getStorageUsageQuery = `SELECT user_id, COALESCE(SUM(file_size), 0) AS total_size, COUNT(video_id) AS video_count
					FROM videos WHERE user_id = $1 GROUP BY user_id`
)
