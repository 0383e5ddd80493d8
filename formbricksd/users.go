package formbricksd

import (
	"crypto/sha256"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/xerrors"

	"github.com/vikaspatil0021/formbricks/cryptorand"
	"github.com/vikaspatil0021/formbricks/formbricksd/database"
	"github.com/vikaspatil0021/formbricks/formbricksd/httpapi"
	"github.com/vikaspatil0021/formbricks/formbricksd/httpmw"
	"github.com/vikaspatil0021/formbricks/formbricksd/userpassword"
	"github.com/vikaspatil0021/formbricks/formbrickssdk"
)

const (
	sessionDuration = 30 * 24 * time.Hour

	// defaultActionClassName is tracked automatically by the widget on
	// every page load.
	defaultActionClassName = "New Session"
)

// defaultAttributeClassNames are created with each environment so ingest
// has somewhere to put identity attributes.
var defaultAttributeClassNames = []string{"userId", "email"}

var errUserAlreadyExists = xerrors.New("the initial user has already been created")

func (api *API) postFirstUser(rw http.ResponseWriter, r *http.Request) {
	var createUser formbrickssdk.CreateFirstUserRequest
	if !httpapi.Read(rw, r, &createUser) {
		return
	}

	hashedPassword, err := userpassword.Hash(createUser.Password)
	if err != nil {
		httpapi.Write(rw, http.StatusInternalServerError, httpapi.Response{
			Message: fmt.Sprintf("hash password: %s", err),
		})
		return
	}

	var resp formbrickssdk.CreateFirstUserResponse
	now := time.Now()
	err = api.Database.InTx(func(db database.Store) error {
		// The gate has to share the transaction, or two concurrent
		// bootstraps can both observe an empty users table.
		userCount, err := db.GetUserCount(r.Context())
		if err != nil {
			return xerrors.Errorf("get user count: %w", err)
		}
		if userCount != 0 {
			return errUserAlreadyExists
		}

		user, err := db.InsertUser(r.Context(), database.InsertUserParams{
			ID:             uuid.New(),
			Email:          createUser.Email,
			Username:       createUser.Username,
			HashedPassword: []byte(hashedPassword),
			CreatedAt:      now,
			UpdatedAt:      now,
		})
		if err != nil {
			return xerrors.Errorf("insert user: %w", err)
		}
		team, err := db.InsertTeam(r.Context(), database.InsertTeamParams{
			ID:        uuid.New(),
			Name:      createUser.Username + "'s Team",
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return xerrors.Errorf("insert team: %w", err)
		}
		_, err = db.InsertTeamMembership(r.Context(), database.InsertTeamMembershipParams{
			TeamID:    team.ID,
			UserID:    user.ID,
			Role:      database.MembershipRoleOwner,
			CreatedAt: now,
		})
		if err != nil {
			return xerrors.Errorf("insert team membership: %w", err)
		}
		product, err := db.InsertProduct(r.Context(), database.InsertProductParams{
			ID:        uuid.New(),
			TeamID:    team.ID,
			Name:      "My Product",
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return xerrors.Errorf("insert product: %w", err)
		}

		for _, envType := range []database.EnvironmentType{
			database.EnvironmentTypeProduction,
			database.EnvironmentTypeDevelopment,
		} {
			environment, err := db.InsertEnvironment(r.Context(), database.InsertEnvironmentParams{
				ID:        uuid.New(),
				ProductID: product.ID,
				Type:      envType,
				CreatedAt: now,
				UpdatedAt: now,
			})
			if err != nil {
				return xerrors.Errorf("insert %s environment: %w", envType, err)
			}
			_, err = db.InsertActionClass(r.Context(), database.InsertActionClassParams{
				ID:            uuid.New(),
				EnvironmentID: environment.ID,
				Name:          defaultActionClassName,
				Description:   "Gets fired when the widget connects",
				Type:          database.ClassTypeAutomatic,
				CreatedAt:     now,
				UpdatedAt:     now,
			})
			if err != nil {
				return xerrors.Errorf("insert default action class: %w", err)
			}
			for _, name := range defaultAttributeClassNames {
				_, err = db.InsertAttributeClass(r.Context(), database.InsertAttributeClassParams{
					ID:            uuid.New(),
					EnvironmentID: environment.ID,
					Name:          name,
					Type:          database.ClassTypeAutomatic,
					CreatedAt:     now,
					UpdatedAt:     now,
				})
				if err != nil {
					return xerrors.Errorf("insert default attribute class: %w", err)
				}
			}
			if envType == database.EnvironmentTypeProduction {
				resp.EnvironmentID = environment.ID
			}
		}

		resp.UserID = user.ID
		resp.TeamID = team.ID
		resp.ProductID = product.ID
		return nil
	}, &database.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		if errors.Is(err, errUserAlreadyExists) {
			httpapi.Write(rw, http.StatusConflict, httpapi.Response{
				Message: "the initial user has already been created",
			})
			return
		}
		if database.IsUniqueViolation(err) {
			httpapi.Write(rw, http.StatusConflict, httpapi.Response{
				Message: "a user with this email already exists",
			})
			return
		}
		httpapi.Write(rw, http.StatusInternalServerError, httpapi.Response{
			Message: fmt.Sprintf("create first user: %s", err),
		})
		return
	}

	httpapi.Write(rw, http.StatusCreated, resp)
}

func (api *API) postLogin(rw http.ResponseWriter, r *http.Request) {
	var login formbrickssdk.LoginWithPasswordRequest
	if !httpapi.Read(rw, r, &login) {
		return
	}

	user, err := api.Database.GetUserByEmail(r.Context(), login.Email)
	if errors.Is(err, sql.ErrNoRows) {
		httpapi.Write(rw, http.StatusUnauthorized, httpapi.Response{
			Message: "incorrect email or password",
		})
		return
	}
	if err != nil {
		httpapi.Write(rw, http.StatusInternalServerError, httpapi.Response{
			Message: fmt.Sprintf("get user: %s", err),
		})
		return
	}

	equal, err := userpassword.Compare(string(user.HashedPassword), login.Password)
	if err != nil {
		httpapi.Write(rw, http.StatusInternalServerError, httpapi.Response{
			Message: fmt.Sprintf("compare password: %s", err),
		})
		return
	}
	if !equal {
		httpapi.Write(rw, http.StatusUnauthorized, httpapi.Response{
			Message: "incorrect email or password",
		})
		return
	}

	token, err := api.createSession(r, user.ID)
	if err != nil {
		httpapi.Write(rw, http.StatusInternalServerError, httpapi.Response{
			Message: fmt.Sprintf("create session: %s", err),
		})
		return
	}

	http.SetCookie(rw, &http.Cookie{
		Name:     httpmw.SessionTokenCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	httpapi.Write(rw, http.StatusCreated, formbrickssdk.LoginWithPasswordResponse{
		SessionToken: token,
	})
}

func (api *API) postLogout(rw http.ResponseWriter, r *http.Request) {
	apiKey := httpmw.APIKey(r)
	err := api.Database.DeleteAPIKeyByID(r.Context(), apiKey.ID)
	if err != nil {
		httpapi.Write(rw, http.StatusInternalServerError, httpapi.Response{
			Message: fmt.Sprintf("delete api key: %s", err),
		})
		return
	}
	http.SetCookie(rw, &http.Cookie{
		Name:   httpmw.SessionTokenCookie,
		Value:  "",
		MaxAge: -1,
		Path:   "/",
	})
	httpapi.Write(rw, http.StatusOK, httpapi.Response{
		Message: "logged out",
	})
}

func (api *API) userMe(rw http.ResponseWriter, r *http.Request) {
	user := httpmw.User(r)
	httpapi.Write(rw, http.StatusOK, convertUser(user))
}

// createSession mints a "<id>-<secret>" token and stores the hashed
// secret.
func (api *API) createSession(r *http.Request, userID uuid.UUID) (string, error) {
	keyID, err := cryptorand.String(10)
	if err != nil {
		return "", xerrors.Errorf("generate key id: %w", err)
	}
	keySecret, err := cryptorand.String(22)
	if err != nil {
		return "", xerrors.Errorf("generate key secret: %w", err)
	}
	hashed := sha256.Sum256([]byte(keySecret))

	now := time.Now()
	_, err = api.Database.InsertAPIKey(r.Context(), database.InsertAPIKeyParams{
		ID:           keyID,
		UserID:       userID,
		HashedSecret: hashed[:],
		LastUsed:     now,
		ExpiresAt:    now.Add(sessionDuration),
		CreatedAt:    now,
	})
	if err != nil {
		return "", xerrors.Errorf("insert api key: %w", err)
	}
	return fmt.Sprintf("%s-%s", keyID, keySecret), nil
}

func convertUser(user database.User) formbrickssdk.User {
	return formbrickssdk.User{
		ID:        user.ID,
		Email:     user.Email,
		Username:  user.Username,
		CreatedAt: user.CreatedAt,
	}
}
