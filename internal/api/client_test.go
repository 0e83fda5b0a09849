package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/saravenpi/parley/internal/session"
)

func bootstrapClient(t *testing.T, handler http.Handler) (*Client, *session.Store) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	sess, err := session.Open(filepath.Join(t.TempDir(), "credentials.yml"))
	require.NoError(t, err)

	client := NewClient(&ClientConfig{BaseURL: srv.URL}, sess, zap.NewNop().Sugar())
	return client, sess
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestLogin_Success(t *testing.T) {
	t.Parallel()

	client, sess := bootstrapClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/login", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "a@b.c", body["email"])
		require.Equal(t, "Secret1!", body["password"])

		writeJSON(t, w, map[string]any{
			"status":        200,
			"access_token":  "acc",
			"refresh_token": "ref",
			"private_key":   "priv",
		})
	}))

	res, err := client.Login(context.Background(), "a@b.c", "Secret1!")
	require.NoError(t, err)
	require.Equal(t, "priv", res.PrivateKey)

	// Login success must persist both tokens.
	require.Equal(t, "acc", sess.AccessToken())
	require.Equal(t, "ref", sess.RefreshToken())
}

func TestLogin_Rejected(t *testing.T) {
	t.Parallel()

	client, sess := bootstrapClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{"status": 401, "description": "wrong password"})
	}))

	_, err := client.Login(context.Background(), "a@b.c", "nope")
	require.Error(t, err)
	require.True(t, IsRejected(err))
	require.Equal(t, "wrong password", Description(err))

	// A rejected login must not touch the session store.
	require.Empty(t, sess.AccessToken())
	require.Empty(t, sess.RefreshToken())
}

func TestRegister_Requires201(t *testing.T) {
	t.Parallel()

	client, sess := bootstrapClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/register", r.URL.Path)
		writeJSON(t, w, map[string]any{"status": 200, "description": "already exists"})
	}))

	_, err := client.Register(context.Background(), "sara", "a@b.c", "Secret1!")
	require.Error(t, err)
	require.True(t, IsRejected(err))
	require.Empty(t, sess.AccessToken())
}

func TestRegister_Success(t *testing.T) {
	t.Parallel()

	client, sess := bootstrapClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{
			"status":        201,
			"access_token":  "acc",
			"refresh_token": "ref",
			"private_key":   "priv",
		})
	}))

	res, err := client.Register(context.Background(), "sara", "a@b.c", "Secret1!")
	require.NoError(t, err)
	require.Equal(t, "acc", res.AccessToken)
	require.Equal(t, "acc", sess.AccessToken())
}

func TestUserChats_BearerHeader(t *testing.T) {
	t.Parallel()

	var gotAuth string
	client, sess := bootstrapClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		writeJSON(t, w, map[string]any{
			"status": 200,
			"chatIds": []map[string]any{
				{"id": "c1", "name": "alice", "lastMessage": "hey"},
			},
		})
	}))
	require.NoError(t, sess.SetTokens("tok-123", "ref"))

	chats, err := client.UserChats(context.Background())
	require.NoError(t, err)
	require.Len(t, chats, 1)
	require.Equal(t, "c1", chats[0].ID)
	require.Equal(t, "alice", chats[0].Name)
	require.Equal(t, "Bearer tok-123", gotAuth)
}

func TestChat_Rejected(t *testing.T) {
	t.Parallel()

	client, _ := bootstrapClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chats/c9", r.URL.Path)
		writeJSON(t, w, map[string]any{"status": 404, "description": "no such chat"})
	}))

	_, err := client.Chat(context.Background(), "c9")
	require.Error(t, err)
	require.True(t, IsRejected(err))
}

func TestCreateChat_ResolvesCurrentUser(t *testing.T) {
	t.Parallel()

	client, _ := bootstrapClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/users/":
			require.Equal(t, http.MethodPost, r.Method)
			writeJSON(t, w, map[string]any{"_id": "me-1", "username": "sara", "public_key": "pk"})
		case "/chats/create":
			var body createChatRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			require.Equal(t, []string{"them-2", "me-1"}, body.MemberIDs)
			require.True(t, body.Direct)
			require.Equal(t, "sara", body.Name)
			require.Equal(t, "me-1", body.CreatedBy)
			writeJSON(t, w, map[string]any{"status": 201, "chatId": "chat-7"})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))

	res, err := client.CreateChat(context.Background(), "them-2")
	require.NoError(t, err)
	require.Equal(t, "chat-7", res.ChatID)
}

func TestSearchUser_EscapesQuery(t *testing.T) {
	t.Parallel()

	client, _ := bootstrapClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/users/search", r.URL.Path)
		require.Equal(t, "a b&c", r.URL.Query().Get("username"))
		writeJSON(t, w, map[string]any{
			"status": 200,
			"user":   map[string]any{"_id": "u1", "username": "a b&c", "public_key": "pk"},
		})
	}))

	user, err := client.SearchUser(context.Background(), "a b&c")
	require.NoError(t, err)
	require.Equal(t, "u1", user.ID)
}

func TestSearchUser_NotFound(t *testing.T) {
	t.Parallel()

	client, _ := bootstrapClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{"status": 404, "description": "user not found"})
	}))

	_, err := client.SearchUser(context.Background(), "ghost")
	require.Error(t, err)
	require.True(t, IsRejected(err))
	require.Equal(t, "user not found", Description(err))
}

func TestDo_ServerUnreachable(t *testing.T) {
	t.Parallel()

	sess, err := session.Open(filepath.Join(t.TempDir(), "credentials.yml"))
	require.NoError(t, err)

	// Port 0 is never listening.
	client := NewClient(&ClientConfig{BaseURL: "http://127.0.0.1:0"}, sess, zap.NewNop().Sugar())

	_, err = client.UserChats(context.Background())
	require.Error(t, err)
	require.False(t, IsRejected(err))
}

func TestDo_MalformedBody(t *testing.T) {
	t.Parallel()

	client, _ := bootstrapClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))

	_, err := client.UserChats(context.Background())
	require.Error(t, err)
	require.False(t, IsRejected(err))
}
