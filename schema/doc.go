// Package schema declares the tables exposed through the graph.
//
// A table lists its columns in declaration order, its primary key and its
// associations:
//
//	people := schema.NewTable("people").
//	    Columns(
//	        schema.Int("id"),
//	        schema.String("name"),
//	    ).
//	    PrimaryKey("id").
//	    Edges(
//	        schema.From("posts", "posts", "author_id"), // to-many
//	    )
//
//	posts := schema.NewTable("posts").
//	    Columns(
//	        schema.Int("id"),
//	        schema.String("title"),
//	        schema.Int("author_id").Nullable(),
//	    ).
//	    PrimaryKey("id").
//	    Edges(
//	        schema.To("author", "people", "author_id"), // to-one, optional
//	    )
//
//	s, err := schema.New(people, posts)
//
// New links every edge to its target, defaults the referenced columns to the
// primary key, and validates identifiers, key columns and join kinds. Timestamp,
// Date and UUID columns require the matching scalar.Features in Config.
//
// Schemas can also be read from YAML with LoadYAML or LoadFile.
package schema
