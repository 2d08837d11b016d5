package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/gqlreq"
)

func TestNamesFor(t *testing.T) {
	tests := []struct {
		model string
		kind  gqlreq.OperationKind
		want  Names
	}{
		{
			model: "Todo",
			kind:  gqlreq.MutationCreate,
			want: Names{
				TypeName:          "Todo",
				OperationName:     "CreateTodo",
				FieldName:         "createTodo",
				InputTypeName:     "CreateTodoInput",
				ConditionTypeName: "ModelTodoConditionInput",
			},
		},
		{
			model: "todo",
			kind:  gqlreq.MutationUpdate,
			want: Names{
				TypeName:          "Todo",
				OperationName:     "UpdateTodo",
				FieldName:         "updateTodo",
				InputTypeName:     "UpdateTodoInput",
				ConditionTypeName: "ModelTodoConditionInput",
			},
		},
		{
			model: "Todo",
			kind:  gqlreq.MutationDelete,
			want: Names{
				TypeName:          "Todo",
				OperationName:     "DeleteTodo",
				FieldName:         "deleteTodo",
				InputTypeName:     "DeleteTodoInput",
				ConditionTypeName: "ModelTodoConditionInput",
			},
		},
		{
			model: "Todo",
			kind:  gqlreq.QueryGet,
			want: Names{
				TypeName:      "Todo",
				OperationName: "GetTodo",
				FieldName:     "getTodo",
			},
		},
		{
			model: "Todo",
			kind:  gqlreq.QueryList,
			want: Names{
				TypeName:           "Todo",
				OperationName:      "ListTodos",
				FieldName:          "listTodos",
				FilterTypeName:     "ModelTodoFilterInput",
				ConnectionTypeName: "ModelTodoConnection",
			},
		},
		{
			model: "BlogPost",
			kind:  gqlreq.QueryList,
			want: Names{
				TypeName:           "BlogPost",
				OperationName:      "ListBlogPosts",
				FieldName:          "listBlogPosts",
				FilterTypeName:     "ModelBlogPostFilterInput",
				ConnectionTypeName: "ModelBlogPostConnection",
			},
		},
		{
			model: "Todo",
			kind:  gqlreq.SubscriptionOnCreate,
			want: Names{
				TypeName:       "Todo",
				OperationName:  "OnCreateTodo",
				FieldName:      "onCreateTodo",
				FilterTypeName: "ModelSubscriptionTodoFilterInput",
			},
		},
		{
			model: "blogPost",
			kind:  gqlreq.SubscriptionOnDelete,
			want: Names{
				TypeName:       "BlogPost",
				OperationName:  "OnDeleteBlogPost",
				FieldName:      "onDeleteBlogPost",
				FilterTypeName: "ModelSubscriptionBlogPostFilterInput",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.model+"/"+tt.kind.Verb(), func(t *testing.T) {
			got, err := NamesFor(tt.model, tt.kind)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			again, err := NamesFor(tt.model, tt.kind)
			require.NoError(t, err)
			assert.Equal(t, got, again)
		})
	}
}

func TestNamesForInvalidName(t *testing.T) {
	for _, model := range []string{"", "to-do", "1Todo", "To do", "Tödo"} {
		t.Run(model, func(t *testing.T) {
			_, err := NamesFor(model, gqlreq.MutationCreate)
			require.Error(t, err)
			assert.True(t, gqlreq.IsInvalidName(err))
		})
	}
}

func TestNamesForUnsupported(t *testing.T) {
	kinds := []gqlreq.OperationKind{
		gqlreq.QueryType("sync"),
		gqlreq.MutationType("upsert"),
		gqlreq.SubscriptionType("onUpsert"),
		nil,
	}
	for _, kind := range kinds {
		_, err := NamesFor("Todo", kind)
		require.Error(t, err)
		assert.True(t, gqlreq.IsUnsupportedOperation(err))
	}
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Todo", capitalize("todo"))
	assert.Equal(t, "TodoItem", capitalize("todoItem"))
	assert.Equal(t, "Todo", capitalize("Todo"))
	assert.Equal(t, "_todo", capitalize("_todo"))
	assert.Equal(t, "", capitalize(""))
	assert.Equal(t, "createTodo", lowerFirst("CreateTodo"))
	assert.Equal(t, "", lowerFirst(""))
}
