package parking

import (
	"fmt"

	"github.com/atlanticdynamic/parklynx/internal/automaton"
)

// State ids of the facility graph. COMPLET uses a reserved id outside the
// entry/exit sequence.
const (
	StateAvailable     automaton.StateID = 0
	StateIdentifying   automaton.StateID = 1
	StateAccessCheck   automaton.StateID = 2
	StateEntryGateOpen automaton.StateID = 3
	StateParked        automaton.StateID = 4
	StateFeeCalc       automaton.StateID = 5
	StateAwaitPayment  automaton.StateID = 6
	StateExitGateOpen  automaton.StateID = 7
	StateFull          automaton.StateID = 99
)

// State labels as reported by Status.
const (
	LabelAvailable     = "DISPONIBLE"
	LabelIdentifying   = "IDENTIFICATION"
	LabelAccessCheck   = "VERIFICATION_ACCES"
	LabelEntryGateOpen = "BARRIERE_ENTREE_OUVERTE"
	LabelParked        = "STATIONNEMENT"
	LabelFeeCalc       = "CALCUL_TARIF"
	LabelAwaitPayment  = "ATTENTE_PAIEMENT"
	LabelExitGateOpen  = "BARRIERE_SORTIE_OUVERTE"
	LabelFull          = "COMPLET"
)

// Events of the facility graph.
const (
	EventDetectEntry     = "detecter_entree"
	EventReadPlate       = "lire_plaque"
	EventAccessGranted   = "acces_valide"
	EventVehicleEntered  = "vehicule_entre"
	EventExitRequested   = "demande_sortie"
	EventPaymentRequired = "paiement_requis"
	EventSubscriberFree  = "abonne_gratuit"
	EventPaymentAccepted = "paiement_valide"
	EventVehicleLeft     = "vehicule_sorti"
	EventFacilityFull    = "parking_plein"
	EventSlotReleased    = "place_liberee"
)

type stateDef struct {
	id          automaton.StateID
	label       string
	role        automaton.Role
	description string
}

var stateDefs = []stateDef{
	{StateAvailable, LabelAvailable, automaton.RoleInitial, "Ready to accept a vehicle, waiting for detection."},
	{StateIdentifying, LabelIdentifying, automaton.RoleNormal, "Reading the license plate or subscriber badge."},
	{StateAccessCheck, LabelAccessCheck, automaton.RoleNormal, "Checking access rights."},
	{StateEntryGateOpen, LabelEntryGateOpen, automaton.RoleNormal, "Access granted, the entry gate opens."},
	{StateParked, LabelParked, automaton.RoleNormal, "Vehicle parked, the slot is monitored."},
	{StateFeeCalc, LabelFeeCalc, automaton.RoleNormal, "Computing the amount due from the stay duration."},
	{StateAwaitPayment, LabelAwaitPayment, automaton.RoleNormal, "The driver must pay the displayed amount."},
	{StateExitGateOpen, LabelExitGateOpen, automaton.RoleNormal, "Payment accepted (or free), exit allowed."},
	{StateFull, LabelFull, automaton.RoleNormal, "No slot available, entry blocked."},
}

var transitionDefs = []struct {
	src, dst automaton.StateID
	event    string
}{
	// entry
	{StateAvailable, StateIdentifying, EventDetectEntry},
	{StateIdentifying, StateAccessCheck, EventReadPlate},
	{StateAccessCheck, StateEntryGateOpen, EventAccessGranted},
	{StateEntryGateOpen, StateParked, EventVehicleEntered},

	// exit
	{StateParked, StateFeeCalc, EventExitRequested},
	{StateFeeCalc, StateAwaitPayment, EventPaymentRequired},
	{StateFeeCalc, StateExitGateOpen, EventSubscriberFree},
	{StateAwaitPayment, StateExitGateOpen, EventPaymentAccepted},
	{StateExitGateOpen, StateAvailable, EventVehicleLeft},

	// saturation
	{StateAvailable, StateFull, EventFacilityFull},
	{StateFull, StateAvailable, EventSlotReleased},
}

// Describe returns the operator-facing description of a facility state.
func Describe(s *automaton.State) string {
	if s == nil {
		return ""
	}
	for _, def := range stateDefs {
		if def.id == s.ID {
			return def.description
		}
	}
	return ""
}

// buildGraph registers the nine facility states and their transitions.
func buildGraph(a *automaton.Automaton) error {
	for _, def := range stateDefs {
		if err := a.AddState(automaton.NewState(def.id, def.label, def.role)); err != nil {
			return fmt.Errorf("failed to register state %s: %w", def.label, err)
		}
	}
	for _, def := range transitionDefs {
		if err := a.AddTransition(def.src, def.dst, def.event); err != nil {
			return fmt.Errorf("failed to register transition %s: %w", def.event, err)
		}
	}
	return nil
}
