package formbrickssdk

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

type Person struct {
	ID            uuid.UUID `json:"id"`
	EnvironmentID uuid.UUID `json:"environment_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// PersonAttribute is one attribute value on a person, labeled with its
// attribute class name.
type PersonAttribute struct {
	AttributeClassID uuid.UUID `json:"attribute_class_id"`
	Name             string    `json:"name"`
	Value            string    `json:"value"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// PersonWithAttributes is a person plus their attribute values.
type PersonWithAttributes struct {
	Person
	Attributes []PersonAttribute `json:"attributes"`
}

// PeopleByEnvironment lists people, newest first. limit defaults
// server-side when zero.
func (c *Client) PeopleByEnvironment(ctx context.Context, environmentID uuid.UUID, limit, offset int) ([]Person, error) {
	res, err := c.Request(ctx, http.MethodGet,
		fmt.Sprintf("/api/v2/environments/%s/people?limit=%d&offset=%d", environmentID, limit, offset), nil)
	if err != nil {
		return nil, err
	}
	if res.StatusCode != http.StatusOK {
		return nil, readBodyAsError(res)
	}
	var people []Person
	return people, readJSON(res, &people)
}

func (c *Client) Person(ctx context.Context, id uuid.UUID) (PersonWithAttributes, error) {
	res, err := c.Request(ctx, http.MethodGet, fmt.Sprintf("/api/v2/people/%s", id), nil)
	if err != nil {
		return PersonWithAttributes{}, err
	}
	if res.StatusCode != http.StatusOK {
		return PersonWithAttributes{}, readBodyAsError(res)
	}
	var person PersonWithAttributes
	return person, readJSON(res, &person)
}

func (c *Client) DeletePerson(ctx context.Context, id uuid.UUID) error {
	res, err := c.Request(ctx, http.MethodDelete, fmt.Sprintf("/api/v2/people/%s", id), nil)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusNoContent {
		return readBodyAsError(res)
	}
	return nil
}
