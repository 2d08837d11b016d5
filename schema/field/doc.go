// Package field provides fluent builders for describing model fields.
//
// A field has a source name (the name in the model) and a target name
// (the name the backend knows). The target defaults to the source name:
//
//	field.String("name")                      // name -> name
//	field.Bool("isDone").Target("done")       // isDone -> done
//
// # Field Types
//
//	field.ID("id")                     // ID
//	field.String("title")              // String
//	field.Int("priority")              // Int
//	field.Float("score")               // Float
//	field.Bool("done")                 // Boolean
//	field.Time("dueAt")                // AWSDateTime
//	field.UUID("ref")                  // ID
//	field.Enum("status", "OPEN", "CLOSED")
//	field.JSON("meta")                 // AWSJSON
//	field.Strings("tags")              // [String]
//
// # Relations
//
// A relation field references another model. It is sent to the backend as
// the related model's identifier, never as an embedded object:
//
//	field.Relation("owner", "User").Target("todoOwnerId")
//	field.Relation("board", "Board").Key("boardKey").Target("boardId")
//
// # Requiredness
//
// Fields are optional by default. A required field whose value is null makes
// serialization fail:
//
//	field.String("name").Required()
package field
