// Create commands for the magbook CLI. Each entity level gets its own
// subcommand; IDs are minted here as UUID v7 unless --id overrides them.
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/coilworks/magbook/pkg/types"
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new entity",
}

var (
	createID           string
	createName         string
	createNotes        string
	createAddress      string
	createContactName  string
	createContactEmail string
	createContactPhone string

	createOrganization string
	createSite         string
	createRoom         string
	createEquipment    string
	createEvent        string

	createType          string
	createManufacturer  string
	createModel         string
	createSerial        string
	createFieldStrength string

	createTitle    string
	createSchedule string

	createFile    string
	createCaption string
	createTags    string
)

var createOrganizationCmd = &cobra.Command{
	Use:   "organization",
	Short: "Create an organization",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		org := &types.Organization{
			OrganizationID: entityID(),
			Name:           createName,
			ContactName:    createContactName,
			ContactEmail:   createContactEmail,
			ContactPhone:   createContactPhone,
			Notes:          createNotes,
		}
		addEntity(types.OrganizationsTable, org.OrganizationID, org)
		return nil
	},
}

var createSiteCmd = &cobra.Command{
	Use:   "site",
	Short: "Create a site under an organization",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		site := &types.Site{
			SiteID:         entityID(),
			OrganizationID: createOrganization,
			Name:           createName,
			Address:        createAddress,
			ContactName:    createContactName,
			ContactPhone:   createContactPhone,
		}
		addEntity(types.SitesTable, site.SiteID, site)
		return nil
	},
}

var createRoomCmd = &cobra.Command{
	Use:   "room",
	Short: "Create a room under a site",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		room := &types.Room{
			RoomID:       entityID(),
			SiteID:       createSite,
			Name:         createName,
			Address:      createAddress,
			ContactName:  createContactName,
			ContactPhone: createContactPhone,
		}
		addEntity(types.RoomsTable, room.RoomID, room)
		return nil
	},
}

var createEquipmentCmd = &cobra.Command{
	Use:   "equipment",
	Short: "Create equipment in a room",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		equipment := &types.Equipment{
			EquipmentID:   entityID(),
			RoomID:        createRoom,
			Name:          createName,
			EquipmentType: createType,
			Manufacturer:  createManufacturer,
			Model:         createModel,
			SerialNumber:  createSerial,
			FieldStrength: createFieldStrength,
			Status:        types.EquipmentStatusActive,
		}
		addEntity(types.EquipmentTable, equipment.EquipmentID, equipment)
		return nil
	},
}

var createEventCmd = &cobra.Command{
	Use:   "event",
	Short: "Create an event against equipment",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := attachBackend()
		if err != nil {
			fmt.Fprintln(os.Stderr, "create:", err)
			os.Exit(exitSysError)
		}
		defer backend.Detach()

		// Copy the equipment's room so the event stays filterable per room
		// even if the equipment moves later.
		equipmentTable, err := backend.GetTable(types.EquipmentTable)
		if err != nil {
			fmt.Fprintln(os.Stderr, "get table:", err)
			os.Exit(exitSysError)
		}
		entity, err := equipmentTable.Get(createEquipment)
		if err != nil {
			if isEntityNotFound(err) {
				fmt.Fprintf(os.Stderr, "equipment %q not found\n", createEquipment)
				os.Exit(exitUserError)
			}
			fmt.Fprintln(os.Stderr, "get equipment:", err)
			os.Exit(exitSysError)
		}
		equipment := entity.(*types.Equipment)

		event := &types.Event{
			EventID:     entityID(),
			EquipmentID: equipment.EquipmentID,
			RoomID:      equipment.RoomID,
			EventType:   createType,
			Status:      types.EventStatusScheduled,
			Title:       createTitle,
		}
		if createSchedule != "" {
			at, err := time.Parse(time.RFC3339, createSchedule)
			if err != nil {
				fmt.Fprintf(os.Stderr, "invalid --schedule %q (expected RFC 3339)\n", createSchedule)
				os.Exit(exitUserError)
			}
			event.ScheduledAt = &at
		}

		addEntityTo(backend.GetTable, types.EventsTable, event.EventID, event)
		return nil
	},
}

var createImageCmd = &cobra.Command{
	Use:   "image",
	Short: "Create an image from a file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(createFile)
		if err != nil {
			fmt.Fprintln(os.Stderr, "read image file:", err)
			os.Exit(exitUserError)
		}

		image := &types.Image{
			ImageID:     entityID(),
			EventID:     createEvent,
			EquipmentID: createEquipment,
			RoomID:      createRoom,
			Data:        data,
			Caption:     createCaption,
		}
		if createTags != "" {
			tags := strings.Split(createTags, ",")
			for i := range tags {
				tags[i] = strings.TrimSpace(tags[i])
			}
			image.Tags = tags
		}
		addEntity(types.ImagesTable, image.ImageID, image)
		return nil
	},
}

var createTimelineCmd = &cobra.Command{
	Use:   "timeline",
	Short: "Create a timeline for an event",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		timeline := &types.Timeline{
			TimelineID: entityID(),
			EventID:    createEvent,
			ImageIDs:   []string{},
		}
		addEntity(types.TimelinesTable, timeline.TimelineID, timeline)
		return nil
	},
}

// entityID returns the --id override or a fresh UUID v7.
func entityID() string {
	if createID != "" {
		return createID
	}
	return newID()
}

// addEntity attaches a backend, adds the entity, and prints the result.
func addEntity(tableName, id string, entity any) {
	backend, err := attachBackend()
	if err != nil {
		fmt.Fprintln(os.Stderr, "create:", err)
		os.Exit(exitSysError)
	}
	defer backend.Detach()
	addEntityTo(backend.GetTable, tableName, id, entity)
}

// addEntityTo adds the entity through an already attached backend.
func addEntityTo(getTable func(string) (types.Table, error), tableName, id string, entity any) {
	table, err := getTable(tableName)
	if err != nil {
		fmt.Fprintln(os.Stderr, "get table:", err)
		os.Exit(exitSysError)
	}

	if err := table.Add(entity); err != nil {
		fmt.Fprintf(os.Stderr, "create %s: %s\n", strings.TrimSuffix(tableName, "s"), err)
		os.Exit(exitUserError)
	}

	// Re-read so output carries the stamped timestamps.
	result, err := table.Get(id)
	if err != nil {
		fmt.Fprintln(os.Stderr, "get created entity:", err)
		os.Exit(exitSysError)
	}

	if flagJSON {
		printJSON(result)
	} else {
		fmt.Printf("Created %s: %s\n", strings.TrimSuffix(tableName, "s"), id)
	}
}

func init() {
	for _, cmd := range []*cobra.Command{
		createOrganizationCmd, createSiteCmd, createRoomCmd,
		createEquipmentCmd, createEventCmd, createImageCmd, createTimelineCmd,
	} {
		cmd.Flags().StringVar(&createID, "id", "", "entity ID (default: generated UUID v7)")
		createCmd.AddCommand(cmd)
	}

	createOrganizationCmd.Flags().StringVar(&createName, "name", "", "organization name (required)")
	createOrganizationCmd.Flags().StringVar(&createContactName, "contact-name", "", "contact person")
	createOrganizationCmd.Flags().StringVar(&createContactEmail, "contact-email", "", "contact email")
	createOrganizationCmd.Flags().StringVar(&createContactPhone, "contact-phone", "", "contact phone")
	createOrganizationCmd.Flags().StringVar(&createNotes, "notes", "", "free-form notes")
	createOrganizationCmd.MarkFlagRequired("name")

	createSiteCmd.Flags().StringVar(&createOrganization, "organization", "", "parent organization ID (required)")
	createSiteCmd.Flags().StringVar(&createName, "name", "", "site name (required)")
	createSiteCmd.Flags().StringVar(&createAddress, "address", "", "street address")
	createSiteCmd.Flags().StringVar(&createContactName, "contact-name", "", "contact person")
	createSiteCmd.Flags().StringVar(&createContactPhone, "contact-phone", "", "contact phone")
	createSiteCmd.MarkFlagRequired("organization")
	createSiteCmd.MarkFlagRequired("name")

	createRoomCmd.Flags().StringVar(&createSite, "site", "", "parent site ID (required)")
	createRoomCmd.Flags().StringVar(&createName, "name", "", "room name (required)")
	createRoomCmd.Flags().StringVar(&createAddress, "address", "", "street address")
	createRoomCmd.Flags().StringVar(&createContactName, "contact-name", "", "contact person")
	createRoomCmd.Flags().StringVar(&createContactPhone, "contact-phone", "", "contact phone")
	createRoomCmd.MarkFlagRequired("site")
	createRoomCmd.MarkFlagRequired("name")

	createEquipmentCmd.Flags().StringVar(&createRoom, "room", "", "parent room ID (required)")
	createEquipmentCmd.Flags().StringVar(&createName, "name", "", "equipment name (required)")
	createEquipmentCmd.Flags().StringVar(&createType, "type", types.EquipmentOther, "equipment type (scanner, coil, phantom, workstation, other)")
	createEquipmentCmd.Flags().StringVar(&createManufacturer, "manufacturer", "", "manufacturer")
	createEquipmentCmd.Flags().StringVar(&createModel, "model", "", "model")
	createEquipmentCmd.Flags().StringVar(&createSerial, "serial", "", "serial number")
	createEquipmentCmd.Flags().StringVar(&createFieldStrength, "field-strength", "", "field strength, e.g. 3T")
	createEquipmentCmd.MarkFlagRequired("room")
	createEquipmentCmd.MarkFlagRequired("name")

	createEventCmd.Flags().StringVar(&createEquipment, "equipment", "", "parent equipment ID (required)")
	createEventCmd.Flags().StringVar(&createTitle, "title", "", "event title (required)")
	createEventCmd.Flags().StringVar(&createType, "type", types.EventOther, "event type (maintenance, repair, calibration, ...)")
	createEventCmd.Flags().StringVar(&createSchedule, "schedule", "", "scheduled time (RFC 3339)")
	createEventCmd.MarkFlagRequired("equipment")
	createEventCmd.MarkFlagRequired("title")

	createImageCmd.Flags().StringVar(&createFile, "file", "", "image file path (required)")
	createImageCmd.Flags().StringVar(&createEvent, "event", "", "parent event ID")
	createImageCmd.Flags().StringVar(&createEquipment, "equipment", "", "parent equipment ID")
	createImageCmd.Flags().StringVar(&createRoom, "room", "", "parent room ID")
	createImageCmd.Flags().StringVar(&createCaption, "caption", "", "caption")
	createImageCmd.Flags().StringVar(&createTags, "tags", "", "comma-separated tags")
	createImageCmd.MarkFlagRequired("file")

	createTimelineCmd.Flags().StringVar(&createEvent, "event", "", "parent event ID (required)")
	createTimelineCmd.MarkFlagRequired("event")
}
