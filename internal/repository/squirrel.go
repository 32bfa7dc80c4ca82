package repository

import sq "github.com/Masterminds/squirrel"

// psql builds statements with $n placeholders as expected by pgx.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
