package formbricksd

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/vikaspatil0021/formbricks/formbricksd/database"
	"github.com/vikaspatil0021/formbricks/formbricksd/httpapi"
	"github.com/vikaspatil0021/formbricks/formbricksd/httpmw"
	"github.com/vikaspatil0021/formbricks/formbrickssdk"
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 100
)

// paginationParams reads limit and offset query parameters.
func paginationParams(r *http.Request) (limit, offset int32) {
	limit = defaultPageLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 32)
		if err == nil && parsed > 0 {
			limit = int32(parsed)
		}
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 32)
		if err == nil && parsed >= 0 {
			offset = int32(parsed)
		}
	}
	return limit, offset
}

func (api *API) peopleByEnvironment(rw http.ResponseWriter, r *http.Request) {
	environment := httpmw.EnvironmentParam(r)
	limit, offset := paginationParams(r)

	people, err := api.Database.GetPeopleByEnvironmentID(r.Context(), database.GetPeopleByEnvironmentIDParams{
		EnvironmentID: environment.ID,
		Limit:         limit,
		Offset:        offset,
	})
	if err != nil {
		httpapi.Write(rw, http.StatusInternalServerError, httpapi.Response{
			Message: fmt.Sprintf("get people: %s", err),
		})
		return
	}

	converted := make([]formbrickssdk.Person, 0, len(people))
	for _, person := range people {
		converted = append(converted, convertPerson(person))
	}
	httpapi.Write(rw, http.StatusOK, converted)
}

func (api *API) person(rw http.ResponseWriter, r *http.Request) {
	person := httpmw.PersonParam(r)

	attributes, err := api.Database.GetAttributesByPersonID(r.Context(), person.ID)
	if err != nil {
		httpapi.Write(rw, http.StatusInternalServerError, httpapi.Response{
			Message: fmt.Sprintf("get attributes: %s", err),
		})
		return
	}

	// Label each attribute with its class name.
	classes, err := api.Database.GetAttributeClassesByEnvironmentID(r.Context(), person.EnvironmentID)
	if err != nil {
		httpapi.Write(rw, http.StatusInternalServerError, httpapi.Response{
			Message: fmt.Sprintf("get attribute classes: %s", err),
		})
		return
	}
	classNames := make(map[uuid.UUID]string, len(classes))
	for _, class := range classes {
		classNames[class.ID] = class.Name
	}

	converted := make([]formbrickssdk.PersonAttribute, 0, len(attributes))
	for _, attribute := range attributes {
		converted = append(converted, formbrickssdk.PersonAttribute{
			AttributeClassID: attribute.AttributeClassID,
			Name:             classNames[attribute.AttributeClassID],
			Value:            attribute.Value,
			UpdatedAt:        attribute.UpdatedAt,
		})
	}
	httpapi.Write(rw, http.StatusOK, formbrickssdk.PersonWithAttributes{
		Person:     convertPerson(person),
		Attributes: converted,
	})
}

func (api *API) deletePerson(rw http.ResponseWriter, r *http.Request) {
	person := httpmw.PersonParam(r)

	err := api.Database.DeletePersonByID(r.Context(), person.ID)
	if err != nil {
		httpapi.Write(rw, http.StatusInternalServerError, httpapi.Response{
			Message: fmt.Sprintf("delete person: %s", err),
		})
		return
	}
	rw.WriteHeader(http.StatusNoContent)
}

func convertPerson(person database.Person) formbrickssdk.Person {
	return formbrickssdk.Person{
		ID:            person.ID,
		EnvironmentID: person.EnvironmentID,
		CreatedAt:     person.CreatedAt,
		UpdatedAt:     person.UpdatedAt,
	}
}
