// Package parking drives an automated parking facility on top of the
// automaton engine.
//
// The facility graph has nine states. An entry walks
// DISPONIBLE -> IDENTIFICATION -> VERIFICATION_ACCES -> BARRIERE_ENTREE_OUVERTE
// -> STATIONNEMENT; an exit walks STATIONNEMENT -> CALCUL_TARIF ->
// (ATTENTE_PAIEMENT ->) BARRIERE_SORTIE_OUVERTE -> DISPONIBLE. COMPLET is
// reached from DISPONIBLE when the last slot is taken.
//
// Entries and exits are orchestrated independently by the caller, so the
// System uses administrative jumps (automaton.ForceState) to put the graph in
// the state a sequence expects before firing it. The free-slot counter is the
// authoritative fullness signal: Status reports COMPLET whenever no slot is
// free, whatever the automaton's literal position.
//
// A System is not safe for concurrent use.
package parking
