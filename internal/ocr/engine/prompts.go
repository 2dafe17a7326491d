package engine

const standardPrompt = `
You are an OCR engine reading a golf scorecard photo.
Return only a JSON object with this exact schema:

{
  "raw_text": "<every line of text on the card, separated by \n>",
  "confidence": <0.0-1.0 overall reading confidence>,
  "golf_course_properties": {
    "course_name": "<string or null>",
    "location": "<string or null>",
    "tee_name": "<string or null>",
    "course_rating": <number or null>,
    "slope_rating": <number or null>,
    "par_values": [<18 integers>],
    "handicap_values": [<18 integers>],
    "total_par": <integer or null>,
    "total_yardage": <integer or null>,
    "players": ["<name>", ...],
    "date": "<YYYY-MM-DD or null>",
    "confidence_score": <0.0-1.0>
  }
}

* Do not add any other text, explanations, or formatting.
* Use null for anything you cannot read.
`

const enhancedPrompt = `
You are a structured-data extractor for golf scorecards.
Read the whole card (course header, every tee row, par row, handicap row and
every player row) and return only a JSON object with this exact schema:

{
  "course_information": {
    "course_name": "<string>",
    "location": "<city, state or null>",
    "date": "<YYYY-MM-DD or null>",
    "tee_name": "<tee the players played, or null>",
    "par_values": [<18 integers, hole 1 first>],
    "handicap_values": [<18 integers, a permutation of 1..18>],
    "total_par": <integer or null>
  },
  "tee_boxes": [
    {
      "name": "<tee name, e.g. Blue>",
      "course_rating": <number or null>,
      "slope_rating": <integer or null>,
      "total_yardage": <integer or null>,
      "yardages": [<18 integers or null>]
    }
  ],
  "player_scores": [
    {
      "player_name": "<string>",
      "hole_scores": [<18 integers, 0 for a blank cell>],
      "front_nine": <integer or null>,
      "back_nine": <integer or null>,
      "total": <integer or null>
    }
  ],
  "overall_confidence": <0.0-1.0>,
  "field_confidence": {"course_name": <0.0-1.0>, "tee_name": <0.0-1.0>, "course_rating": <0.0-1.0>, "slope_rating": <0.0-1.0>}
}

* Return syntactically correct JSON only: double quotes, no trailing commas, no comments.
* Never invent values; use null when a value is unreadable.
`
