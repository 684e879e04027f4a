package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/zenGate-Global/haulage-backoffice/platform/go/sproc"
)

// Shared satellite procedures and the tables their keys come from.
const (
	procNameAddressGet  = "spNameAddress_Get"
	procNameAddressSave = "spNameAddress_Save"
	procContactsGet     = "spContacts_Get"
	procContactsSave    = "spContacts_Save"
	procContactsDelete  = "spContacts_Delete"
	procContactGet      = "spContact_Get"
	procContactSave     = "spContact_Save"
	procContactDelete   = "spContact_Delete"
	procCommentGet      = "spComment_Get"
	procCommentSave     = "spComment_Save"
	procCommentDelete   = "spComment_Delete"

	addressKeyTable = "NameAddress"
	contactKeyTable = "Contacts"
	commentKeyTable = "Comments"
)

// Address is a NameAddress row. NameQual records which entity type created it.
type Address struct {
	NameKey  int64  `json:"name_key" schema:"name_key"`
	NameQual string `json:"name_qual" schema:"-"`
	Name1    string `json:"name1" schema:"name1" validate:"max=60"`
	Name2    string `json:"name2" schema:"name2" validate:"max=60"`
	Address1 string `json:"address1" schema:"address1" validate:"max=60"`
	Address2 string `json:"address2" schema:"address2" validate:"max=60"`
	City     string `json:"city" schema:"city" validate:"max=40"`
	State    string `json:"state" schema:"state" validate:"max=2"`
	Zip      string `json:"zip" schema:"zip" validate:"max=10"`
	Country  string `json:"country" schema:"country" validate:"max=3"`
	Phone    string `json:"phone" schema:"phone" validate:"max=20"`
	Fax      string `json:"fax" schema:"fax" validate:"max=20"`
}

func (a Address) SaveParams() []any {
	return []any{
		a.NameKey,
		a.NameQual,
		a.Name1,
		a.Name2,
		a.Address1,
		a.Address2,
		a.City,
		a.State,
		a.Zip,
		a.Country,
		a.Phone,
		a.Fax,
	}
}

func scanAddress(row sproc.Row) Address {
	return Address{
		NameKey:  row.Int64("NameKey"),
		NameQual: row.String("NameQual"),
		Name1:    row.String("Name1"),
		Name2:    row.String("Name2"),
		Address1: row.String("Address1"),
		Address2: row.String("Address2"),
		City:     row.String("City"),
		State:    row.String("State"),
		Zip:      row.String("Zip"),
		Country:  row.String("Country"),
		Phone:    row.String("Phone"),
		Fax:      row.String("Fax"),
	}
}

// Contact hangs off an address. CellNo, Email and PrimaryContact are shown
// and accepted but spContact_Save does not take them.
type Contact struct {
	ContactKey      int64  `json:"contact_key" schema:"contact_key"`
	ContactName     string `json:"contact_name" schema:"contact_name" validate:"required,max=50"`
	ContactFunction string `json:"contact_function" schema:"contact_function" validate:"max=30"`
	TelephoneNo     string `json:"telephone_no" schema:"telephone_no" validate:"max=20"`
	CellNo          string `json:"cell_no" schema:"cell_no"`
	Email           string `json:"email" schema:"email"`
	PrimaryContact  bool   `json:"primary_contact" schema:"primary_contact"`
}

func (c Contact) SaveParams() []any {
	return []any{c.ContactKey, c.ContactName, c.ContactFunction, c.TelephoneNo}
}

func scanContact(row sproc.Row) Contact {
	return Contact{
		ContactKey:      row.Int64("ContactKey"),
		ContactName:     row.String("ContactName"),
		ContactFunction: row.String("ContactFunction"),
		TelephoneNo:     row.String("TelephoneNo"),
		CellNo:          row.String("CellNo"),
		Email:           row.String("Email"),
		PrimaryContact:  row.Bool("PrimaryContact"),
	}
}

// Comment is free text owned by exactly one entity. The audit columns are
// maintained by the procedures.
type Comment struct {
	CommentKey  int64      `json:"comment_key" schema:"comment_key"`
	Comment     string     `json:"comment" schema:"comment" validate:"required"`
	UserID      string     `json:"-" schema:"-"`
	CommentBy   string     `json:"comment_by" schema:"-"`
	CommentDate sproc.Date `json:"comment_date" schema:"-"`
	EditedBy    string     `json:"edited_by" schema:"-"`
	EditedDate  sproc.Date `json:"edited_date" schema:"-"`
}

func (c Comment) SaveParams() []any {
	return []any{c.CommentKey, c.Comment, c.UserID}
}

func scanComment(row sproc.Row) Comment {
	return Comment{
		CommentKey:  row.Int64("CommentKey"),
		Comment:     row.String("Comment"),
		CommentBy:   row.String("CommentBy"),
		CommentDate: row.Date("CommentDate"),
		EditedBy:    row.String("EditedBy"),
		EditedDate:  row.Date("EditedDate"),
	}
}

// Junctions walks the address, contact and comment link tables of one entity type.
// None of the multi-step writes are atomic.
type Junctions struct {
	desc     Descriptor
	gateways sproc.Provider
}

func NewJunctions(desc Descriptor, gateways sproc.Provider) *Junctions {
	if !desc.HasJunctions {
		panic(desc.Name + " has no address, contact or comment links")
	}
	if gateways == nil {
		panic("gateway provider is required")
	}
	return &Junctions{desc: desc, gateways: gateways}
}

// GetAddress follows the first entity→address link.
func (j *Junctions) GetAddress(ctx context.Context, key Key) (Address, error) {
	gw, err := j.gateways.Gateway(ctx)
	if err != nil {
		return Address{}, err
	}

	nameKey, err := j.nameKey(ctx, gw, key)
	if err != nil {
		return Address{}, err
	}
	return j.loadAddress(ctx, gw, nameKey)
}

// SaveAddress updates the address linked to the entity. When the entity has
// no address yet, a new one is created and linked. A NameKey that is not the
// entity's linked address is rejected with ErrNotFound.
func (j *Junctions) SaveAddress(ctx context.Context, key Key, address Address) (Address, error) {
	if key.IsZero() {
		return Address{}, ErrNotFound
	}
	gw, err := j.gateways.Gateway(ctx)
	if err != nil {
		return Address{}, err
	}

	linked, err := j.nameKey(ctx, gw, key)
	switch {
	case errors.Is(err, ErrNotFound):
		if address.NameKey != 0 {
			return Address{}, ErrNotFound
		}
		return j.createAddress(ctx, gw, key, address)
	case err != nil:
		return Address{}, err
	case address.NameKey != 0 && address.NameKey != linked:
		return Address{}, ErrNotFound
	}

	address.NameKey = linked
	address.NameQual = j.desc.NameQual
	if err := callStatus(ctx, gw, procNameAddressSave, address.SaveParams()...); err != nil {
		return Address{}, err
	}
	return address, nil
}

// CreateBlankAddress gives a freshly created entity an empty linked address.
func (j *Junctions) CreateBlankAddress(ctx context.Context, key Key) (Address, error) {
	if key.IsZero() {
		return Address{}, ErrNotFound
	}
	gw, err := j.gateways.Gateway(ctx)
	if err != nil {
		return Address{}, err
	}
	return j.createAddress(ctx, gw, key, Address{})
}

func (j *Junctions) createAddress(ctx context.Context, gw *sproc.Gateway, key Key, address Address) (Address, error) {
	id, err := gw.NextSurrogateKey(ctx, addressKeyTable)
	if err != nil {
		return Address{}, err
	}
	address.NameKey = id
	address.NameQual = j.desc.NameQual

	if err := callStatus(ctx, gw, procNameAddressSave, address.SaveParams()...); err != nil {
		return Address{}, err
	}
	params := append(key.Params(), address.NameKey)
	if err := callStatus(ctx, gw, j.desc.JunctionProcedure("NameAddresses", "Save"), params...); err != nil {
		return Address{}, err
	}
	return address, nil
}

// GetContacts resolves the entity's address, then loads every linked contact.
func (j *Junctions) GetContacts(ctx context.Context, key Key) ([]Contact, error) {
	gw, err := j.gateways.Gateway(ctx)
	if err != nil {
		return []Contact{}, err
	}

	nameKey, err := j.nameKey(ctx, gw, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return []Contact{}, nil
		}
		return []Contact{}, err
	}

	links, err := gw.Call(ctx, procContactsGet, nameKey)
	if err != nil {
		return []Contact{}, err
	}

	contacts := make([]Contact, 0, len(links))
	for _, link := range links {
		rows, err := gw.Call(ctx, procContactGet, link.Int64("ContactKey"))
		if err != nil {
			return []Contact{}, err
		}
		if len(rows) > 0 {
			contacts = append(contacts, scanContact(rows[0]))
		}
	}
	return contacts, nil
}

// SaveContact saves the four stored columns and links a new contact to the
// entity's address, creating that address first if there is none. An existing
// contact must already hang off the entity's address.
func (j *Junctions) SaveContact(ctx context.Context, key Key, contact Contact) (Contact, error) {
	if key.IsZero() {
		return Contact{}, ErrNotFound
	}
	gw, err := j.gateways.Gateway(ctx)
	if err != nil {
		return Contact{}, err
	}

	link := contact.ContactKey == 0
	nameKey, err := j.nameKey(ctx, gw, key)
	if errors.Is(err, ErrNotFound) && link {
		address, createErr := j.createAddress(ctx, gw, key, Address{})
		if createErr != nil {
			return Contact{}, createErr
		}
		nameKey, err = address.NameKey, nil
	}
	if err != nil {
		return Contact{}, err
	}

	if link {
		id, err := gw.NextSurrogateKey(ctx, contactKeyTable)
		if err != nil {
			return Contact{}, err
		}
		contact.ContactKey = id
	} else if err := j.contactLinked(ctx, gw, nameKey, contact.ContactKey); err != nil {
		return Contact{}, err
	}

	if err := callStatus(ctx, gw, procContactSave, contact.SaveParams()...); err != nil {
		return Contact{}, err
	}
	if link {
		if err := callStatus(ctx, gw, procContactsSave, nameKey, contact.ContactKey); err != nil {
			return Contact{}, err
		}
	}
	return contact, nil
}

// DeleteContact unlinks the contact from the entity's address, then deletes it.
func (j *Junctions) DeleteContact(ctx context.Context, key Key, contactKey int64) error {
	if contactKey == 0 {
		return ErrNotFound
	}
	gw, err := j.gateways.Gateway(ctx)
	if err != nil {
		return err
	}

	nameKey, err := j.nameKey(ctx, gw, key)
	if err != nil {
		return err
	}
	if err := j.contactLinked(ctx, gw, nameKey, contactKey); err != nil {
		return err
	}
	if err := callStatus(ctx, gw, procContactsDelete, nameKey, contactKey); err != nil {
		return err
	}
	return callStatus(ctx, gw, procContactDelete, contactKey)
}

// GetComments loads every comment linked to the entity.
func (j *Junctions) GetComments(ctx context.Context, key Key) ([]Comment, error) {
	gw, err := j.gateways.Gateway(ctx)
	if err != nil {
		return []Comment{}, err
	}

	links, err := gw.Call(ctx, j.desc.JunctionProcedure("Comments", "Get"), key.Params()...)
	if err != nil {
		return []Comment{}, err
	}

	comments := make([]Comment, 0, len(links))
	for _, link := range links {
		rows, err := gw.Call(ctx, procCommentGet, link.Int64("CommentKey"))
		if err != nil {
			return []Comment{}, err
		}
		if len(rows) > 0 {
			comments = append(comments, scanComment(rows[0]))
		}
	}
	return comments, nil
}

// SaveComment saves the text. Only a new comment is linked to the entity; a
// comment belongs to the same entity for its lifetime, so an existing one must
// already be linked to key.
func (j *Junctions) SaveComment(ctx context.Context, key Key, comment Comment) (Comment, error) {
	if key.IsZero() {
		return Comment{}, ErrNotFound
	}
	gw, err := j.gateways.Gateway(ctx)
	if err != nil {
		return Comment{}, err
	}

	link := comment.CommentKey == 0
	if link {
		id, err := gw.NextSurrogateKey(ctx, commentKeyTable)
		if err != nil {
			return Comment{}, err
		}
		comment.CommentKey = id
	} else if err := j.commentLinked(ctx, gw, key, comment.CommentKey); err != nil {
		return Comment{}, err
	}

	if err := callStatus(ctx, gw, procCommentSave, comment.SaveParams()...); err != nil {
		return Comment{}, err
	}
	if link {
		params := append(key.Params(), comment.CommentKey)
		if err := callStatus(ctx, gw, j.desc.JunctionProcedure("Comments", "Save"), params...); err != nil {
			return Comment{}, err
		}
	}
	return comment, nil
}

// DeleteComment unlinks the comment, then deletes it.
func (j *Junctions) DeleteComment(ctx context.Context, key Key, commentKey int64) error {
	if commentKey == 0 {
		return ErrNotFound
	}
	gw, err := j.gateways.Gateway(ctx)
	if err != nil {
		return err
	}
	if err := j.commentLinked(ctx, gw, key, commentKey); err != nil {
		return err
	}

	params := append(key.Params(), commentKey)
	if err := callStatus(ctx, gw, j.desc.JunctionProcedure("Comments", "Delete"), params...); err != nil {
		return err
	}
	return callStatus(ctx, gw, procCommentDelete, commentKey)
}

// nameKey returns the first linked NameKey. The link table may hold more; only
// the first is ever used.
func (j *Junctions) nameKey(ctx context.Context, gw *sproc.Gateway, key Key) (int64, error) {
	if key.IsZero() {
		return 0, ErrNotFound
	}
	rows, err := gw.Call(ctx, j.desc.JunctionProcedure("NameAddresses", "Get"), key.Params()...)
	if err != nil {
		return 0, err
	}
	for _, row := range rows {
		if id := row.Int64("NameKey"); id > 0 {
			return id, nil
		}
	}
	return 0, ErrNotFound
}

// contactLinked reports ErrNotFound unless contactKey hangs off nameKey.
func (j *Junctions) contactLinked(ctx context.Context, gw *sproc.Gateway, nameKey, contactKey int64) error {
	rows, err := gw.Call(ctx, procContactsGet, nameKey)
	if err != nil {
		return err
	}
	return linkedKey(rows, "ContactKey", contactKey)
}

// commentLinked reports ErrNotFound unless commentKey is linked to key.
func (j *Junctions) commentLinked(ctx context.Context, gw *sproc.Gateway, key Key, commentKey int64) error {
	if key.IsZero() {
		return ErrNotFound
	}
	rows, err := gw.Call(ctx, j.desc.JunctionProcedure("Comments", "Get"), key.Params()...)
	if err != nil {
		return err
	}
	return linkedKey(rows, "CommentKey", commentKey)
}

func linkedKey(rows []sproc.Row, column string, id int64) error {
	for _, row := range rows {
		if row.Int64(column) == id {
			return nil
		}
	}
	return ErrNotFound
}

func (j *Junctions) loadAddress(ctx context.Context, gw *sproc.Gateway, nameKey int64) (Address, error) {
	rows, err := gw.Call(ctx, procNameAddressGet, nameKey)
	if err != nil {
		return Address{}, err
	}
	if len(rows) == 0 {
		return Address{}, ErrNotFound
	}
	address := scanAddress(rows[0])
	address.NameKey = nameKey
	return address, nil
}

func callStatus(ctx context.Context, gw *sproc.Gateway, procedure string, params ...any) error {
	code, err := gw.CallForStatus(ctx, procedure, params...)
	if err != nil {
		return err
	}
	if err := sproc.CheckStatus(procedure, code); err != nil {
		return fmt.Errorf("junction write: %w", err)
	}
	return nil
}
