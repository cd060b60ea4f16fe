package errors

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errSentinel = errors.New("sentinel")

func TestClassifiedError(t *testing.T) {
	t.Run("builder fields", func(t *testing.T) {
		err := NewError(CategoryConfig, "invalid playbook").
			WithSeverity(SeverityFatal).
			WithPath("docatlas.yml").
			Build()

		assert.Equal(t, CategoryConfig, err.Category())
		assert.Equal(t, SeverityFatal, err.Severity())
		assert.Equal(t, "invalid playbook", err.Message())
		path, ok := err.Context().GetString(ContextPath)
		require.True(t, ok)
		assert.Equal(t, "docatlas.yml", path)
		assert.Equal(t, "[config:fatal] invalid playbook", err.Error())
	})

	t.Run("catalog errors stop the run", func(t *testing.T) {
		err := CatalogError("duplicate page").Build()
		assert.True(t, HasCategory(err, CategoryCatalog))
		assert.False(t, err.CanRetry())
		assert.True(t, err.IsFatal())
	})

	t.Run("sentinel survives wrapping", func(t *testing.T) {
		err := WrapError(errSentinel, CategoryAlreadyExists, "duplicate").Build()
		require.ErrorIs(t, err, errSentinel)
		assert.Equal(t, "[already_exists:error] duplicate: sentinel", err.Error())

		wrapped := errors.Join(errors.New("outer"), err)
		assert.Equal(t, CategoryAlreadyExists, GetCategory(wrapped))
		assert.Equal(t, CategoryInternal, GetCategory(errSentinel))
		assert.Equal(t, SeverityError, GetSeverity(errSentinel))
	})

	t.Run("WithContext copies", func(t *testing.T) {
		base := SyntaxError("bad id").Build()
		derived := base.WithContext(ContextSpec, "a::")
		_, ok := base.Context().Get(ContextSpec)
		assert.False(t, ok)
		spec, _ := derived.Context().GetString(ContextSpec)
		assert.Equal(t, "a::", spec)
	})

	t.Run("builder reuse does not leak context", func(t *testing.T) {
		b := NotFoundError("missing").WithSpec("a.adoc")
		first := b.Build()
		second := b.WithKey("page:1.0@c:ROOT:a.adoc").Build()
		assert.Equal(t, []string{ContextSpec}, first.Context().Keys())
		assert.Equal(t, []string{ContextKey, ContextSpec}, second.Context().Keys())
	})

	t.Run("log attributes", func(t *testing.T) {
		err := GitError("open failed").WithContext("url", "https://example.org/r.git").Build()
		attrs := err.LogAttrs()
		require.Len(t, attrs, 3)
		assert.Equal(t, slog.String("category", "git"), attrs[0])
		assert.Equal(t, slog.Bool("retryable", true), attrs[1])
		assert.Equal(t, "url", attrs[2].Key)
	})
}

func TestConvenienceConstructors(t *testing.T) {
	tests := []struct {
		name     string
		builder  *ErrorBuilder
		category ErrorCategory
		severity ErrorSeverity
		retry    RetryStrategy
	}{
		{"ConfigError", ConfigError("test"), CategoryConfig, SeverityFatal, RetryUserAction},
		{"ValidationError", ValidationError("test"), CategoryValidation, SeverityFatal, RetryNever},
		{"SyntaxError", SyntaxError("test"), CategorySyntax, SeverityError, RetryUserAction},
		{"NotFoundError", NotFoundError("test"), CategoryNotFound, SeverityError, RetryUserAction},
		{"DuplicateError", DuplicateError("test"), CategoryAlreadyExists, SeverityFatal, RetryUserAction},
		{"CatalogError", CatalogError("test"), CategoryCatalog, SeverityFatal, RetryUserAction},
		{"GitError", GitError("test"), CategoryGit, SeverityError, RetryBackoff},
		{"BuildError", BuildError("test"), CategoryBuild, SeverityFatal, RetryNever},
		{"FileSystemError", FileSystemError("test"), CategoryFileSystem, SeverityError, RetryBackoff},
		{"InternalError", InternalError("test"), CategoryInternal, SeverityFatal, RetryNever},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.builder.Build()
			assert.Equal(t, tt.category, err.Category())
			assert.Equal(t, tt.severity, err.Severity())
			assert.Equal(t, tt.retry, err.RetryStrategy())
		})
	}
}

func TestErrorContextKeys(t *testing.T) {
	var empty ErrorContext
	assert.Empty(t, empty.Keys())
	_, ok := empty.GetString("x")
	assert.False(t, ok)

	ctx := empty.Set("b", 2).Set("a", "one")
	assert.Equal(t, []string{"a", "b"}, ctx.Keys())
	_, ok = ctx.GetString("b")
	assert.False(t, ok, "non-string values are not returned as strings")
}
